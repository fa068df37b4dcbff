package commands

import (
	"fmt"
	"io"

	"github.com/pkositsyn/phonecheck/internal/config"
	"github.com/pkositsyn/phonecheck/internal/logger"
	"github.com/pkositsyn/phonecheck/internal/validation"
	"github.com/spf13/cobra"
)

var (
	cfg = config.Config{Env: "production", Country: validation.DefaultCountry, BatchSize: 128}
	log = logger.Discard()
)

// Configure sets the environment defaults and the log destination for all
// commands. Flags given on the command line win over cfg.
func Configure(c config.Config, logOut io.Writer) {
	cfg = c
	log = logger.New(c.Env, logOut)
}

// phoneFlags are the validation settings shared by check and batch.
type phoneFlags struct {
	country        string
	plansFile      string
	format         string
	allowExtension bool
	requireMobile  bool
	strictLength   bool
	verifyRegion   bool
}

func (f *phoneFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.country, "country", "c", validation.DefaultCountry, "Код страны (ISO 3166-1 alpha-2), env PHONECHECK_COUNTRY")
	fs.StringVar(&f.plansFile, "plans", "", "YAML файл с дополнительными планами нумерации, env PHONECHECK_PLANS")
	fs.StringVar(&f.format, "format", "e164", "Формат нормализованного номера: e164, international, national, rfc3966")
	fs.BoolVar(&f.allowExtension, "allow-extension", false, "Разрешить добавочный номер (ext 12)")
	fs.BoolVar(&f.requireMobile, "require-mobile", false, "Требовать мобильный номер")
	fs.BoolVar(&f.strictLength, "strict-length", false, "Требовать точную каноническую длину")
	fs.BoolVar(&f.verifyRegion, "verify-region", false, "Дополнительно сверять номер с метаданными libphonenumber")
}

// applyConfig fills flags the user did not set from the environment config.
func (f *phoneFlags) applyConfig(cmd *cobra.Command) {
	if !cmd.Flags().Changed("country") && cfg.Country != "" {
		f.country = cfg.Country
	}
	if !cmd.Flags().Changed("plans") && cfg.PlansFile != "" {
		f.plansFile = cfg.PlansFile
	}
}

// options returns only the switches given on the command line so that plan
// defaults stay in effect for the rest.
func (f *phoneFlags) options(cmd *cobra.Command) map[string]bool {
	opts := make(map[string]bool)
	set := func(flag, key string, v bool) {
		if cmd.Flags().Changed(flag) {
			opts[key] = v
		}
	}
	set("allow-extension", validation.OptAllowExtension, f.allowExtension)
	set("require-mobile", validation.OptRequireMobile, f.requireMobile)
	set("strict-length", validation.OptStrictLength, f.strictLength)
	set("verify-region", validation.OptVerifyRegion, f.verifyRegion)
	return opts
}

func (f *phoneFlags) validator(warn io.Writer) (*validation.Validator, error) {
	table := validation.DefaultTable()

	if f.plansFile != "" {
		extra, err := validation.LoadTableFile(f.plansFile)
		if err != nil {
			return nil, fmt.Errorf("ошибка загрузки планов из %s: %w", f.plansFile, err)
		}
		log.PlansLoaded(f.plansFile, extra.Countries())
		table = table.Merge(extra)
	}

	if _, ok := table.Lookup(f.country); !ok {
		fmt.Fprintf(warn, "Внимание: страна %s не поддерживается, все номера будут отклонены\n", f.country)
	}

	return validation.New(table), nil
}
