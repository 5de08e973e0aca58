package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	apperrors "tms/internal/errors"
	"tms/internal/model"
	"tms/internal/repository"
)

// importFields are the test case fields a CSV column can fill.
var importFields = []string{
	"title",
	"description",
	"precondition",
	"steps",
	"expectedResult",
	"priority",
	"automationType",
	"category",
}

func isImportField(name string) bool {
	for _, f := range importFields {
		if f == name {
			return true
		}
	}
	return false
}

// ImportInput describes one CSV import.
type ImportInput struct {
	FileName   string
	Content    io.Reader
	FolderID   *uuid.UUID
	Mapping    map[string]string
	ImportedBy string
}

// ImportResult reports how many rows were imported and why the others failed.
type ImportResult struct {
	SuccessCount int                   `json:"successCount"`
	FailureCount int                   `json:"failureCount"`
	Failures     []model.ImportFailure `json:"failures"`
}

// ImportService imports test cases from CSV files.
type ImportService interface {
	Import(ctx context.Context, in ImportInput) (*ImportResult, error)
	Recent(ctx context.Context) ([]model.ImportLog, error)
}

const recentImportsLimit = 20

type importService struct {
	store repository.Store
}

// NewImportService creates a new import service.
func NewImportService(store repository.Store) ImportService {
	return &importService{store: store}
}

// ParseMapping decodes a JSON object of CSV header to field name. An empty string is no mapping.
func ParseMapping(raw string) (map[string]string, error) {
	mapping := map[string]string{}
	if strings.TrimSpace(raw) == "" {
		return mapping, nil
	}
	if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
		return nil, apperrors.NewValidationError("mapping must be a JSON object of header to field")
	}
	return mapping, nil
}

// ResolveRows reads a CSV whose first row holds the column headers and turns each data row
// into a test case. Rows fail independently; a failure records the row number counting the
// header as row 1. Sequence, case number and folder are left for the caller to assign.
func ResolveRows(r io.Reader, mapping map[string]string) ([]model.TestCase, []model.ImportFailure, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, apperrors.NewValidationError("CSV file has no header row")
	}
	if err != nil {
		return nil, nil, apperrors.NewValidationError(fmt.Sprintf("invalid CSV: %v", err))
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	cases := make([]model.TestCase, 0)
	failures := make([]model.ImportFailure, 0)
	for index := 0; ; index++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, apperrors.NewValidationError(fmt.Sprintf("invalid CSV at row %d: %v", index+2, err))
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = strings.TrimSpace(record[i])
			} else {
				row[name] = ""
			}
		}

		tc, err := resolveRow(row, mapping)
		if err != nil {
			failures = append(failures, model.ImportFailure{Row: index + 2, Message: err.Error(), Data: row})
			continue
		}
		cases = append(cases, tc)
	}
	return cases, failures, nil
}

func resolveRow(row map[string]string, mapping map[string]string) (model.TestCase, error) {
	values := make(map[string]string)
	if len(mapping) > 0 {
		for header, field := range mapping {
			if !isImportField(field) {
				continue
			}
			if cell := row[header]; cell != "" {
				values[field] = cell
			}
		}
	} else {
		for _, field := range importFields {
			if cell := row[field]; cell != "" {
				values[field] = cell
			}
		}
	}

	tc := model.TestCase{
		Title:          values["title"],
		Priority:       model.PriorityMedium,
		AutomationType: model.AutomationManual,
	}
	if tc.Title == "" {
		return tc, errors.New("title is missing")
	}
	if v, ok := values["priority"]; ok {
		tc.Priority = model.Priority(strings.ToUpper(v))
		if !tc.Priority.Valid() {
			return tc, fmt.Errorf("invalid priority %q", v)
		}
	}
	if v, ok := values["automationType"]; ok {
		tc.AutomationType = model.AutomationType(strings.ToUpper(v))
		if !tc.AutomationType.Valid() {
			return tc, fmt.Errorf("invalid automationType %q", v)
		}
	}
	tc.Description = optionalValue(values, "description")
	tc.Precondition = optionalValue(values, "precondition")
	tc.Steps = optionalValue(values, "steps")
	tc.ExpectedResult = optionalValue(values, "expectedResult")
	tc.Category = optionalValue(values, "category")
	return tc, nil
}

func optionalValue(values map[string]string, field string) *string {
	v, ok := values[field]
	if !ok {
		return nil
	}
	return &v
}

// Import resolves every row, then inserts the successful ones in one batch at the end of
// the target folder. Sequence and case number run from values reserved once for the batch.
func (s *importService) Import(ctx context.Context, in ImportInput) (*ImportResult, error) {
	cases, failures, err := ResolveRows(in.Content, in.Mapping)
	if err != nil {
		return nil, err
	}

	err = s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := ensureFolder(ctx, tx, in.FolderID); err != nil {
			return err
		}

		if len(cases) > 0 {
			sequence, caseNumber, err := reserve(ctx, tx, in.FolderID, len(cases))
			if err != nil {
				return err
			}
			for i := range cases {
				cases[i].FolderID = in.FolderID
				cases[i].Sequence = sequence
				cases[i].CaseNumber = caseNumber
				sequence++
				caseNumber++
			}
			if err := tx.TestCases().CreateBatch(ctx, cases); err != nil {
				return fmt.Errorf("insert test cases: %w", err)
			}
		}

		log := &model.ImportLog{
			FileName:     in.FileName,
			FolderID:     in.FolderID,
			SuccessCount: len(cases),
			FailureCount: len(failures),
			Failures:     failures,
			ImportedBy:   in.ImportedBy,
		}
		if err := tx.Imports().Create(ctx, log); err != nil {
			return fmt.Errorf("write import log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		SuccessCount: len(cases),
		FailureCount: len(failures),
		Failures:     failures,
	}, nil
}

// Recent returns the latest import logs, newest first.
func (s *importService) Recent(ctx context.Context) ([]model.ImportLog, error) {
	logs, err := s.store.Imports().ListRecent(ctx, recentImportsLimit)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	return logs, nil
}
