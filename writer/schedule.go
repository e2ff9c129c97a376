package writer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	appconfig "github.com/smarsx/larena/config"
	"github.com/smarsx/larena/logger"
	"github.com/smarsx/larena/models"
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type memFile struct {
	buffer *bytes.Buffer
}

func newMemFile() *memFile {
	return &memFile{buffer: &bytes.Buffer{}}
}

func (m *memFile) Create(string) (source.ParquetFile, error) { return m, nil }
func (m *memFile) Open(string) (source.ParquetFile, error)   { return m, nil }
func (m *memFile) Seek(int64, int) (int64, error)            { return int64(m.buffer.Len()), nil }
func (m *memFile) Read([]byte) (int, error)                  { return 0, fmt.Errorf("read not supported") }
func (m *memFile) Write(b []byte) (int, error)               { return m.buffer.Write(b) }
func (m *memFile) Close() error                              { return nil }
func (m *memFile) Bytes() []byte                             { return m.buffer.Bytes() }

// Result describes where a schedule batch ended up.
type Result struct {
	Key       string
	LocalPath string
	S3URI     string
	Size      int64
	Rows      int
}

// ScheduleWriter encodes price schedules as parquet and stores them under
// output.dir and, when enabled, in S3.
type ScheduleWriter struct {
	cfg      *appconfig.Config
	s3Client objectPutter
	manifest *Manifest
	log      *logger.Log
}

// NewScheduleWriter builds the writer. The S3 client is only created when
// storage.s3.enabled is set.
func NewScheduleWriter(ctx context.Context, cfg *appconfig.Config) (*ScheduleWriter, error) {
	w := &ScheduleWriter{cfg: cfg, log: logger.GetLogger()}

	if cfg.Output.Dir != "" {
		w.manifest = NewManifest(cfg.Output.Dir)
	}

	if cfg.Storage.S3.Enabled {
		client, err := newS3Client(ctx, cfg.Storage.S3)
		if err != nil {
			return nil, err
		}
		w.s3Client = client
	}

	w.log.WithComponent("schedule_writer").WithFields(logger.Fields{
		"dir":         cfg.Output.Dir,
		"compression": cfg.Output.Compression,
		"s3_enabled":  cfg.Storage.S3.Enabled,
	}).Debug("schedule writer initialized")
	return w, nil
}

func newS3Client(ctx context.Context, cfg appconfig.S3Config) (*s3.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	}), nil
}

// Write encodes the batch once and stores it in every configured destination.
func (w *ScheduleWriter) Write(ctx context.Context, batch models.ScheduleBatch) (Result, error) {
	entryLog := w.log.WithComponent("schedule_writer").WithFields(logger.Fields{
		"curve":  batch.Curve,
		"run_id": batch.RunID,
		"rows":   len(batch.Rows),
	})

	if len(batch.Rows) == 0 {
		return Result{}, fmt.Errorf("schedule for %s has no rows", batch.Curve)
	}

	start := time.Now()
	data, err := w.createParquet(batch.Rows)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Key:  w.generateKey(batch),
		Size: int64(len(data)),
		Rows: len(batch.Rows),
	}

	if w.cfg.Output.Dir != "" {
		local := filepath.Join(w.cfg.Output.Dir, filepath.FromSlash(res.Key))
		if err := writeFile(local, data); err != nil {
			return Result{}, err
		}
		res.LocalPath = local
	}

	if w.manifest != nil && res.LocalPath != "" {
		priced, failed := batch.Counts()
		if err := w.manifest.Add(batch.Curve, ManifestFile{
			Path:      res.Key,
			RunID:     batch.RunID,
			FileSize:  res.Size,
			Rows:      int64(res.Rows),
			Priced:    int64(priced),
			Failed:    int64(failed),
			Timestamp: batch.Timestamp,
		}); err != nil {
			entryLog.WithError(err).Warn("failed to update schedule manifest")
		}
	}

	if w.s3Client != nil {
		key := w.s3Key(res.Key)
		if err := w.uploadToS3(ctx, key, data); err != nil {
			return Result{}, err
		}
		res.S3URI = fmt.Sprintf("s3://%s/%s", w.cfg.Storage.S3.Bucket, key)
	}

	logger.LogPerformanceEntry(entryLog, "schedule_writer", "write", time.Since(start), logger.Fields{
		"key":       res.Key,
		"file_size": res.Size,
		"s3_uri":    res.S3URI,
	})
	return res, nil
}

func (w *ScheduleWriter) createParquet(rows []models.ScheduleRow) ([]byte, error) {
	mem := newMemFile()
	pw, err := writer.NewParquetWriter(mem, new(models.ScheduleRow), 1)
	if err != nil {
		return nil, fmt.Errorf("new parquet writer: %w", err)
	}
	pw.CompressionType = compressionCodec(w.cfg.Output.Compression)

	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			pw.WriteStop()
			return nil, fmt.Errorf("write schedule row: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("finalize schedule parquet: %w", err)
	}
	return mem.Bytes(), nil
}

func compressionCodec(name string) parquet.CompressionCodec {
	switch strings.ToLower(name) {
	case "snappy", "":
		return parquet.CompressionCodec_SNAPPY
	case "gzip":
		return parquet.CompressionCodec_GZIP
	default:
		return parquet.CompressionCodec_UNCOMPRESSED
	}
}

// generateKey returns curve=<name>/date=YYYY-MM-DD/<name>_<timestamp><uuid>.parquet.
func (w *ScheduleWriter) generateKey(batch models.ScheduleBatch) string {
	ts := batch.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	name := curvePartition(batch.Curve)
	filename := fmt.Sprintf("%s_%s.parquet",
		name,
		ts.UTC().Format("20060102150405")+uuid.NewString(),
	)
	return path.Join(
		fmt.Sprintf("curve=%s", name),
		fmt.Sprintf("date=%s", ts.UTC().Format("2006-01-02")),
		filename,
	)
}

func (w *ScheduleWriter) s3Key(key string) string {
	prefix := strings.Trim(w.cfg.Storage.S3.Prefix, "/")
	if prefix == "" {
		return key
	}
	return path.Join(prefix, key)
}

func (w *ScheduleWriter) uploadToS3(ctx context.Context, key string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(w.cfg.Storage.S3.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/octet-stream"),
		Metadata: map[string]string{
			"content-type":   "parquet",
			"compression":    w.cfg.Output.Compression,
			"larena-version": w.cfg.App.Version,
		},
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	if _, err := w.s3Client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("upload schedule parquet: %w", err)
	}
	return nil
}

func writeFile(name string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("write schedule parquet: %w", err)
	}
	return nil
}
