package tenantcode

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"github.com/dropDatabas3/edunexus/internal/domain/repository"
	"github.com/dropDatabas3/edunexus/internal/observability/logger"
)

// Palabras que no aportan al prefijo ("Institute of Science and Technology" -> "IST").
var stopWords = map[string]struct{}{
	"of":  {},
	"the": {},
	"and": {},
	"&":   {},
}

// fallbackPrefix se usa cuando el nombre no deja ninguna letra útil.
const fallbackPrefix = "INS"

// suffixWidth: los sufijos van zero-padded a 4 dígitos ("SMIS0001").
const suffixWidth = 4

// DerivePrefix arma el prefijo del código: primera letra de cada palabra
// significativa del nombre, en mayúsculas.
func DerivePrefix(instituteName string) string {
	var b strings.Builder
	for _, tok := range strings.Fields(instituteName) {
		if _, skip := stopWords[strings.ToLower(tok)]; skip {
			continue
		}
		r := []rune(tok)[0]
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	if b.Len() == 0 {
		return fallbackPrefix
	}
	return b.String()
}

// Generator asigna códigos únicos de instituto consultando el mayor sufijo
// ya usado para el prefijo.
type Generator struct {
	Repo repository.InstituteRepository
}

func NewGenerator(repo repository.InstituteRepository) *Generator {
	return &Generator{Repo: repo}
}

// Next genera el siguiente código para instituteName. Si el storage falla al
// consultar el sufijo, degrada al prefijo genérico "INS" con sufijo aleatorio
// de 4 dígitos: preferimos un código menos prolijo antes que abortar el
// registro.
func (g *Generator) Next(ctx context.Context, instituteName string) string {
	prefix := DerivePrefix(instituteName)

	max, err := g.Repo.MaxCodeSuffix(ctx, prefix)
	if err != nil {
		logger.From(ctx).Warn("code suffix lookup failed, using fallback code",
			logger.Component("tenantcode"), logger.Err(err))
		return fallbackPrefix + randomSuffix()
	}
	return fmt.Sprintf("%s%0*d", prefix, suffixWidth, max+1)
}

func randomSuffix() string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		// rand.Reader no falla en la práctica; último recurso determinista
		return "0001"
	}
	return fmt.Sprintf("%0*d", suffixWidth, n.Int64())
}
