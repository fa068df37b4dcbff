package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkositsyn/phonecheck/internal/validation"
	"github.com/spf13/cobra"
)

var CheckCmd = &cobra.Command{
	Use:   "check [телефон...]",
	Short: "Проверка телефонных номеров (из аргументов или stdin, по одному на строку)",
	RunE:  runCheck,
}

var checkFlags phoneFlags

func init() {
	checkFlags.register(CheckCmd)
}

type checkLine struct {
	Input     string            `json:"input"`
	Country   string            `json:"country"`
	Result    validation.Result `json:"result"`
	Formatted string            `json:"formatted,omitempty"`
}

// Longest stdin line check accepts.
const maxStdinLine = 16 << 20

func runCheck(cmd *cobra.Command, args []string) error {
	checkFlags.applyConfig(cmd)

	style, err := validation.ParseStyle(checkFlags.format)
	if err != nil {
		return err
	}

	v, err := checkFlags.validator(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	phones := args
	if len(phones) == 0 {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		scanner.Buffer(make([]byte, 0, 64*1024), maxStdinLine)
		for scanner.Scan() {
			if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
				phones = append(phones, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("ошибка чтения stdin: %w", err)
		}
	}

	opts := checkFlags.options(cmd)
	enc := json.NewEncoder(cmd.OutOrStdout())

	invalid := 0
	for i, phone := range phones {
		res := v.Validate(phone, checkFlags.country, opts)
		line := checkLine{Input: phone, Country: res.Country(), Result: res}

		if n, ok := res.Normalized(); ok && style != validation.StyleE164 {
			if line.Formatted, err = validation.Format(n, res.Country(), style); err != nil {
				return err
			}
		}
		if !res.Valid() {
			invalid++
			log.InvalidPhone(i+1, res.Country(), res.Errors())
		}

		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("ошибка записи результата: %w", err)
		}
	}

	if invalid > 0 {
		return fmt.Errorf("невалидных номеров: %d из %d", invalid, len(phones))
	}
	return nil
}
