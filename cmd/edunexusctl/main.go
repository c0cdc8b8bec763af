package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/edunexus/internal/config"
	"github.com/dropDatabas3/edunexus/internal/jwt"
	"github.com/dropDatabas3/edunexus/internal/observability/logger"
	"github.com/dropDatabas3/edunexus/internal/store/pg"
	"github.com/dropDatabas3/edunexus/internal/tenantcode"
)

// edunexusctl: herramientas de operación (migraciones, tokens de prueba,
// chequeos) para el backend.

func main() {
	_ = godotenv.Load()
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "edunexusctl:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "edunexusctl",
		Short:         "Herramientas de operación de EduNexus",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(prefixCmd(), tokenCmd(), migrateCmd(), healthCmd())
	return root
}

func prefixCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prefix <nombre del instituto>",
		Short: "Muestra el prefijo de código que genera un nombre",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(tenantcode.DerivePrefix(strings.Join(args, " ")))
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	var (
		iss  string
		seed string
		role string
		sub  string
		name string
		ttl  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un token de sesión firmado (para pruebas)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed == "" {
				seed = os.Getenv("JWT_ED25519_SEED")
			}
			issuer, err := jwt.NewIssuer(iss, seed, ttl)
			if err != nil {
				return err
			}
			tok, exp, err := issuer.IssueSession(jwt.SessionClaims{Sub: sub, Role: role, Name: name})
			if err != nil {
				return err
			}
			fmt.Println(tok)
			fmt.Fprintln(os.Stderr, "expira:", exp.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&iss, "iss", "edunexus", "issuer del token")
	cmd.Flags().StringVar(&seed, "seed", "", "seed Ed25519 base64 (default: JWT_ED25519_SEED)")
	cmd.Flags().StringVar(&role, "role", jwt.RoleInstitute, "rol: institute | student | teacher")
	cmd.Flags().StringVar(&sub, "sub", "", "subject (id de la cuenta)")
	cmd.Flags().StringVar(&name, "name", "", "nombre visible")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "vigencia")
	return cmd
}

func migrateCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica el esquema de la base global",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			logger.Init(logger.Config{Env: cfg.App.Env, ServiceName: "edunexusctl"})
			defer logger.Sync()

			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			store, err := pg.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			return store.Migrate(ctx)
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "ruta al config YAML (vacío = defaults + env)")
	return cmd
}

func healthCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Consulta /readyz del servicio",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: 5 * time.Second}
			resp, err := client.Get(strings.TrimRight(addr, "/") + "/readyz")
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			var pretty map[string]any
			if json.Unmarshal(body, &pretty) == nil {
				out, _ := json.MarshalIndent(pretty, "", "  ")
				fmt.Println(string(out))
			} else {
				fmt.Println(string(body))
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("not ready (status %d)", resp.StatusCode)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "http://localhost:8080", "base URL del servicio")
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.Default(), nil
}
