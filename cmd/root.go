package cmd

import (
	"fmt"
	"os"

	"github.com/pkositsyn/phonecheck/internal/commands"
	"github.com/pkositsyn/phonecheck/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "phonecheck",
	Short: "Проверка и нормализация телефонных номеров по планам нумерации стран",
	Long: `phonecheck - утилита для проверки телефонных номеров: нормализация,
проверка длины и мобильных префиксов по плану нумерации страны (по умолчанию TR),
пакетная обработка TSV файлов`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commands.Configure(config.Load(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.BatchCmd)
	rootCmd.AddCommand(commands.PlansCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
