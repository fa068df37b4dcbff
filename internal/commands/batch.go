package commands

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/pkositsyn/phonecheck/internal/io"
	"github.com/pkositsyn/phonecheck/internal/maxprocs"
	"github.com/pkositsyn/phonecheck/internal/progress"
	"github.com/pkositsyn/phonecheck/internal/validation"
	"github.com/pkositsyn/phonecheck/internal/workerpool"
	"github.com/spf13/cobra"
)

var BatchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Пакетная проверка телефонов из TSV файла",
	Long: `Читает TSV (или .tsv.gz), берет телефон из столбца --column и пишет выходной TSV
в исходном порядке: исходные поля, затем is_valid, normalized, extension, errors.`,
	RunE: runBatch,
}

var (
	batchFlags      phoneFlags
	batchInput      string
	batchOutput     string
	batchBatchSize  int
	batchWorkers    int
	batchColumn     int
	batchSkipHeader bool
)

func init() {
	batchFlags.register(BatchCmd)
	BatchCmd.Flags().StringVarP(&batchInput, "input", "i", "", "Входной TSV файл")
	BatchCmd.Flags().StringVarP(&batchOutput, "output", "o", "phones_checked.tsv", "Выходной TSV файл (.gz для сжатия)")
	BatchCmd.Flags().IntVar(&batchBatchSize, "batch-size", 128, "Размер батча для параллельной обработки, env PHONECHECK_BATCH_SIZE")
	BatchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "Число воркеров (0 - по числу CPU), env PHONECHECK_WORKERS")
	BatchCmd.Flags().IntVar(&batchColumn, "column", 0, "Номер столбца с телефоном (с нуля)")
	BatchCmd.Flags().BoolVar(&batchSkipHeader, "skip-header", false, "Первая строка - заголовок")
	BatchCmd.MarkFlagRequired("input")
}

// BatchParams configures ProcessBatch.
type BatchParams struct {
	Country    string
	Options    map[string]bool
	Style      validation.Style
	Column     int
	BatchSize  int
	Workers    int
	SkipHeader bool
}

// BatchStats counts processed records. Blank phones are neither valid nor
// invalid here.
type BatchStats struct {
	Total   int
	Valid   int
	Invalid int
	Blank   int
}

var batchHeader = []string{"is_valid", "normalized", "extension", "errors"}

func runBatch(cmd *cobra.Command, args []string) error {
	batchFlags.applyConfig(cmd)
	if !cmd.Flags().Changed("workers") {
		batchWorkers = cfg.Workers
	}
	if !cmd.Flags().Changed("batch-size") && cfg.BatchSize > 0 {
		batchBatchSize = cfg.BatchSize
	}

	style, err := validation.ParseStyle(batchFlags.format)
	if err != nil {
		return err
	}

	v, err := batchFlags.validator(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	reader, err := io.OpenTSVFile(batchInput)
	if err != nil {
		return fmt.Errorf("ошибка открытия входного файла: %w", err)
	}
	defer reader.Close()

	writer, err := io.CreateTSVFile(batchOutput)
	if err != nil {
		return fmt.Errorf("ошибка создания выходного файла: %w", err)
	}
	defer writer.Close()

	workers := maxprocs.Adjust(0)
	if batchWorkers > 0 {
		workers = batchWorkers
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	var wg sync.WaitGroup
	if err := progress.TrackProgress(ctx, &wg, cmd.ErrOrStderr(), "Прогресс проверки", reader); err != nil {
		return err
	}

	stats, err := ProcessBatch(ctx, reader, writer, v, BatchParams{
		Country:    batchFlags.country,
		Options:    batchFlags.options(cmd),
		Style:      style,
		Column:     batchColumn,
		BatchSize:  batchBatchSize,
		Workers:    workers,
		SkipHeader: batchSkipHeader,
	})
	cancel()
	wg.Wait()
	if err != nil {
		return err
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("ошибка финализации записи: %w", err)
	}

	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "Обработано записей: %d\n", stats.Total)
	fmt.Fprintf(out, "Валидных: %d, невалидных: %d, пустых: %d\n", stats.Valid, stats.Invalid, stats.Blank)
	fmt.Fprintf(out, "Результат: %s\n", batchOutput)
	log.BatchDone(batchInput, stats.Total, stats.Valid, stats.Invalid, stats.Blank, workers)

	return nil
}

type batchTask struct {
	index  int
	record []string
}

type batchRow struct {
	index  int
	record []string
	result validation.Result
}

// ProcessBatch validates the phone column of every record on a worker pool
// and writes the annotated records in input order.
func ProcessBatch(ctx context.Context, reader *io.TSVReader, writer *io.TSVWriter, v *validation.Validator, params BatchParams) (BatchStats, error) {
	var stats BatchStats
	if params.BatchSize <= 0 {
		params.BatchSize = 128
	}

	handler := func(_ context.Context, task batchTask) (batchRow, error) {
		res := v.Validate(task.record[params.Column], params.Country, params.Options)

		normalized, _ := res.Normalized()
		if normalized != "" && params.Style != validation.StyleE164 {
			formatted, err := validation.Format(normalized, res.Country(), params.Style)
			if err != nil {
				return batchRow{}, fmt.Errorf("строка %d: %w", task.index, err)
			}
			normalized = formatted
		}

		out := make([]string, 0, len(task.record)+len(batchHeader))
		out = append(out, task.record...)
		out = append(out, strconv.FormatBool(res.Valid()), normalized, res.Extension(), res.Message())

		return batchRow{index: task.index, record: out, result: res}, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := workerpool.New(ctx, handler, params.Workers)

	// Input line of the record with index 0, for logs.
	firstLine := 1
	if params.SkipHeader {
		firstLine = 2
	}

	var writeErr error
	var wg sync.WaitGroup

	// Results arrive out of order; hold them until the next index shows up.
	wg.Go(func() {
		pending := make(map[int]batchRow)
		next := 0
		for result := range pool.Results() {
			if writeErr != nil {
				continue
			}
			if result.Error != nil {
				writeErr = result.Error
				cancel()
				continue
			}

			pending[result.Value.index] = result.Value
			for {
				row, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				next++

				countRow(&stats, row, row.index+firstLine)
				if err := writer.Write(row.record); err != nil {
					writeErr = fmt.Errorf("ошибка записи: %w", err)
					cancel()
					break
				}
			}
		}
	})

	fail := func(err error) (BatchStats, error) {
		cancel()
		pool.Close()
		wg.Wait()
		return stats, err
	}

	if params.SkipHeader {
		header, err := reader.Read()
		if err != nil && err != io.EOF {
			return fail(fmt.Errorf("ошибка чтения заголовка: %w", err))
		}
		if err == nil {
			if err := writer.Write(append(header, batchHeader...)); err != nil {
				return fail(fmt.Errorf("ошибка записи заголовка: %w", err))
			}
		}
	}

	count := 0
	batch := make([]batchTask, 0, params.BatchSize)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fail(fmt.Errorf("ошибка чтения записи %d: %w", count, err))
		}

		if params.Column < 0 || params.Column >= len(record) {
			return fail(fmt.Errorf("неверный формат записи %d: нет столбца %d, полей %d", count, params.Column, len(record)))
		}

		batch = append(batch, batchTask{index: count, record: record})
		count++

		if len(batch) >= params.BatchSize {
			if err := pool.Add(batch); err != nil {
				break
			}
			batch = make([]batchTask, 0, params.BatchSize)
		}
	}

	if len(batch) > 0 {
		pool.Add(batch)
	}

	pool.Close()
	wg.Wait()

	if writeErr != nil {
		return stats, writeErr
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	return stats, nil
}

func countRow(stats *BatchStats, row batchRow, line int) {
	stats.Total++
	switch _, ok := row.result.Normalized(); {
	case !row.result.Valid():
		stats.Invalid++
		log.InvalidPhone(line, row.result.Country(), row.result.Errors())
	case ok:
		stats.Valid++
	default:
		stats.Blank++
	}
}
