// Package common contains the conversion pipeline shared by command handlers.
package common

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	csvutil "fjacquet/settle2qif/internal/common"
	"fjacquet/settle2qif/internal/fileutils"
	"fjacquet/settle2qif/internal/history"
	"fjacquet/settle2qif/internal/logging"
	"fjacquet/settle2qif/internal/models"
	"fjacquet/settle2qif/internal/parsererror"
	"fjacquet/settle2qif/internal/qif"
)

// Options describes one conversion run.
type Options struct {
	InputPath  string
	OutputPath string
	Encoding   string
	SkipHeader bool
	// AuditPath enables the audit CSV when non-empty.
	AuditPath string
	// Verify reads the serialized outputs back before anything is written.
	Verify bool
}

// Summary reports the outcome of a successful run.
type Summary struct {
	Converted int
	Skipped   []*parsererror.MalformedRowError
	Blocks    []models.TransactionBlock
	Duration  time.Duration
}

// ProcessFile converts opts.InputPath into a QIF file at opts.OutputPath.
//
// Rows with too few columns are logged and skipped. A missing input file is
// returned as *parsererror.MissingInputFileError. Outputs are published only
// once everything else succeeded: the audit CSV first, the QIF last, inside
// the history transaction when recorder is non-nil. Any error leaves neither
// file behind.
func ProcessFile(ctx context.Context, conv *qif.Converter, opts Options, recorder history.Recorder, log logging.Logger) (*Summary, error) {
	started := time.Now()
	log = log.WithFields(
		logging.F(logging.FieldInputFile, opts.InputPath),
		logging.F(logging.FieldOutputFile, opts.OutputPath))

	log.Info(fmt.Sprintf("Starting conversion from %s to %s...", opts.InputPath, opts.OutputPath))

	text, err := fileutils.ReadText(opts.InputPath, opts.Encoding)
	if err != nil {
		return nil, err
	}

	lines := qif.SplitLines(text)
	log.Debug("Read input file",
		logging.F(logging.FieldEncoding, opts.Encoding),
		logging.F(logging.FieldCount, len(lines)))
	firstLine := 1
	if opts.SkipHeader && len(lines) > 0 {
		log.Debug("Skipping header row", logging.F(logging.FieldContent, lines[0]))
		lines = lines[1:]
		firstLine = 2
	}

	result := conv.ConvertFrom(lines, firstLine)
	for _, skipped := range result.Skipped {
		log.Warn(fmt.Sprintf("Skipping line due to incomplete data (expected %d columns, got %d)",
			skipped.Expected, skipped.FieldCount),
			logging.F(logging.FieldLine, skipped.Line),
			logging.F(logging.FieldFieldCount, skipped.FieldCount),
			logging.F(logging.FieldContent, skipped.Content))
	}

	var out bytes.Buffer
	if err := qif.Write(&out, result.Blocks); err != nil {
		return nil, fmt.Errorf("error serializing QIF: %w", err)
	}

	var audit []byte
	if opts.AuditPath != "" {
		if audit, err = csvutil.AuditCSV(result.Blocks, conv.Delimiter(), log); err != nil {
			return nil, err
		}
	}

	if opts.Verify {
		if err := verifyOutputs(out.Bytes(), audit, conv.Delimiter(), result.Blocks); err != nil {
			return nil, fmt.Errorf("output verification failed: %w", err)
		}
		log.Debug("Verified outputs read back", logging.F(logging.FieldCount, result.Count))
	}

	summary := &Summary{
		Converted: result.Count,
		Skipped:   result.Skipped,
		Blocks:    result.Blocks,
		Duration:  time.Since(started),
	}

	p := &publisher{qifPath: opts.OutputPath, qif: out.Bytes(), auditPath: opts.AuditPath, audit: audit}
	if recorder == nil {
		err = p.publish()
	} else {
		_, err = recorder.RecordWith(ctx, history.Run{
			StartedAt:  started,
			InputPath:  opts.InputPath,
			OutputPath: opts.OutputPath,
			Converted:  summary.Converted,
			Skipped:    len(summary.Skipped),
			Duration:   summary.Duration,
		}, p.publish)
		if err != nil {
			if p.published {
				// the commit failed after the files were in place
				p.withdraw(log)
			}
			if p.err == nil {
				err = fmt.Errorf("error recording run history: %w", err)
			}
		}
	}
	if err != nil {
		return nil, err
	}

	if audit != nil {
		log.Info("Wrote audit report",
			logging.F(logging.FieldAuditFile, opts.AuditPath),
			logging.F(logging.FieldCount, summary.Converted))
	}
	log.Info("Conversion successful!",
		logging.F(logging.FieldCount, summary.Converted),
		logging.F(logging.FieldSkipped, len(summary.Skipped)),
		logging.F(logging.FieldDuration, summary.Duration.Milliseconds()))
	log.Info(fmt.Sprintf("Wrote %d multi-split transactions to %s", summary.Converted, opts.OutputPath))

	return summary, nil
}

func verifyOutputs(qifData, audit []byte, delimiter rune, blocks []models.TransactionBlock) error {
	if err := qif.Verify(qifData, blocks); err != nil {
		return err
	}
	if audit != nil {
		return csvutil.VerifyAudit(audit, delimiter, blocks)
	}
	return nil
}

// publisher writes the prepared outputs, audit CSV first and QIF last.
type publisher struct {
	qifPath   string
	qif       []byte
	auditPath string
	audit     []byte
	published bool
	// err is the failure of the last publish call.
	err error
}

func (p *publisher) publish() error {
	p.err = p.write()
	p.published = p.err == nil
	return p.err
}

func (p *publisher) write() error {
	if p.audit != nil {
		if err := fileutils.WriteFileAtomic(p.auditPath, p.audit); err != nil {
			return fmt.Errorf("error writing audit file: %w", err)
		}
	}
	if err := fileutils.WriteFileAtomic(p.qifPath, p.qif); err != nil {
		if p.audit != nil {
			_ = os.Remove(p.auditPath)
		}
		return fmt.Errorf("error writing QIF file: %w", err)
	}
	return nil
}

// withdraw removes files written by publish.
func (p *publisher) withdraw(log logging.Logger) {
	paths := []string{p.qifPath}
	if p.audit != nil {
		paths = append(paths, p.auditPath)
	}
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.WithError(err).Warn("Failed to remove output after history failure",
				logging.F(logging.FieldOutputFile, path))
		}
	}
	p.published = false
}
