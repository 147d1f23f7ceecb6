package s3

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	log "github.com/sirupsen/logrus"

	"model-gate-service/internal/config"
	"model-gate-service/internal/core/domain"
	ports "model-gate-service/internal/core/ports/output"
)

// DatasetReader loads the reference dataset and daily observation windows
// from the object store. Windows are the inference service's request
// logs, laid out as <log_prefix>/date=YYYY-MM-DD/*.json where each file
// holds either a single record ("input") or a batch ("inputs").
type DatasetReader struct {
	client    *s3.Client
	bucket    string
	logPrefix string
}

func NewDatasetReader(ctx context.Context, cfg *config.S3Config) (*DatasetReader, error) {
	client, err := newClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &DatasetReader{
		client:    client,
		bucket:    cfg.Bucket,
		logPrefix: strings.Trim(cfg.LogPrefix, "/"),
	}, nil
}

// LoadReference reads a JSON array of records from ref.
func (r *DatasetReader) LoadReference(ctx context.Context, ref string) (*domain.Dataset, error) {
	bucket, key := r.bucket, ref
	if strings.HasPrefix(ref, "s3://") {
		rest := strings.TrimPrefix(ref, "s3://")
		parts := strings.SplitN(rest, "/", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed reference ref %q", ref)
		}
		bucket, key = parts[0], parts[1]
	}

	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get reference object %s: %w", ref, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read reference object %s: %w", ref, err)
	}

	var records []map[string]interface{}
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode reference dataset %s: %w", ref, err)
	}

	dataset, err := buildDataset(ref, records)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"ref": ref, "rows": dataset.Rows}).
		Info("loaded reference dataset")
	return dataset, nil
}

// LoadWindow reads every log object under the date folder and flattens
// single and batch entries into one record set.
func (r *DatasetReader) LoadWindow(ctx context.Context, date string) (*domain.Dataset, error) {
	prefix := fmt.Sprintf("%s/date=%s/", r.logPrefix, date)
	windowRef := fmt.Sprintf("s3://%s/%s", r.bucket, prefix)

	records := []map[string]interface{}{}
	paginator := s3.NewListObjectsV2Paginator(r.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list window objects %s: %w", windowRef, err)
		}
		for _, obj := range page.Contents {
			rows, err := r.readLogObject(ctx, *obj.Key)
			if err != nil {
				return nil, err
			}
			records = append(records, rows...)
		}
	}

	dataset, err := buildDataset(windowRef, records)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"date": date, "rows": dataset.Rows}).
		Info("loaded observation window")
	return dataset, nil
}

func (r *DatasetReader) readLogObject(ctx context.Context, key string) ([]map[string]interface{}, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get log object %s: %w", key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read log object %s: %w", key, err)
	}

	// Single and batch log formats are unified into flat records.
	var entry struct {
		Input  map[string]interface{}   `json:"input"`
		Inputs []map[string]interface{} `json:"inputs"`
	}
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, fmt.Errorf("decode log object %s: %w", key, err)
	}

	if entry.Input != nil {
		return []map[string]interface{}{entry.Input}, nil
	}
	return entry.Inputs, nil
}

// buildDataset pivots flat records into typed columns. The first observed
// value fixes a column's kind; JSON numbers are numeric, strings and
// booleans categorical. A later value of the other kind is a schema
// mismatch.
func buildDataset(ref string, records []map[string]interface{}) (*domain.Dataset, error) {
	byName := map[string]*domain.Column{}
	for _, record := range records {
		for name, value := range record {
			if value == nil {
				continue
			}

			col, ok := byName[name]
			if !ok {
				col = &domain.Column{Name: name, Kind: kindOf(value)}
				byName[name] = col
			}
			if kindOf(value) != col.Kind {
				return nil, fmt.Errorf("%w: column %q mixes numeric and categorical values in %s",
					domain.ErrSchemaMismatch, name, ref)
			}

			switch col.Kind {
			case domain.ColumnNumeric:
				col.Numeric = append(col.Numeric, value.(float64))
			case domain.ColumnCategorical:
				col.Categories = append(col.Categories, fmt.Sprintf("%v", value))
			}
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	columns := make([]domain.Column, 0, len(names))
	for _, name := range names {
		columns = append(columns, *byName[name])
	}

	return &domain.Dataset{Ref: ref, Rows: len(records), Columns: columns}, nil
}

func kindOf(value interface{}) domain.ColumnKind {
	if _, ok := value.(float64); ok {
		return domain.ColumnNumeric
	}
	return domain.ColumnCategorical
}

var _ ports.DatasetReader = (*DatasetReader)(nil)
