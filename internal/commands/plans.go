package commands

import (
	"fmt"

	"github.com/pkositsyn/phonecheck/internal/validation"
	"github.com/spf13/cobra"
)

var PlansCmd = &cobra.Command{
	Use:   "plans [страна...]",
	Short: "Вывод действующих планов нумерации в YAML",
	RunE:  runPlans,
}

var plansFile string

func init() {
	PlansCmd.Flags().StringVar(&plansFile, "plans", "", "YAML файл с дополнительными планами нумерации, env PHONECHECK_PLANS")
}

func runPlans(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("plans") {
		plansFile = cfg.PlansFile
	}

	f := phoneFlags{plansFile: plansFile, country: validation.DefaultCountry}
	v, err := f.validator(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	table := v.Plans()
	if len(args) > 0 {
		selected := make(validation.Table, len(args))
		for _, country := range args {
			plan, ok := table.Lookup(country)
			if !ok {
				return fmt.Errorf("страна %s не поддерживается", country)
			}
			selected[plan.Country] = plan
		}
		table = selected
	}

	return validation.WriteTable(cmd.OutOrStdout(), table)
}
