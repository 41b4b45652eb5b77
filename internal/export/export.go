// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"

	"github.com/csvcmp/csvcmp/internal/aws"
	"github.com/csvcmp/csvcmp/internal/cacheutil"
	"github.com/csvcmp/csvcmp/internal/log"
	"github.com/csvcmp/csvcmp/internal/table"
)

const (
	contentType = "text/csv"
	maxAttempts = 3
)

var (
	// ErrNothingToExport is reported for an empty row set.
	ErrNothingToExport = errors.New("nothing to export")
	// ErrNoBucket is reported when sharing without a bucket.
	ErrNoBucket = errors.New("no bucket configured")
)

// ExportError means a result could not be written or uploaded.
type ExportError struct {
	Op   string
	Name string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Name, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// Mode selects which rows are exported.
type Mode int

const (
	All Mode = iota
	DiffOnly
)

// ParseMode accepts "all" or "diff" (also "diff-only", "differences").
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all":
		return All, nil
	case "diff", "diff-only", "differences":
		return DiffOnly, nil
	}
	return All, fmt.Errorf("unknown export mode %q (want all or diff)", s)
}

func (m Mode) String() string {
	if m == DiffOnly {
		return "diff"
	}
	return "all"
}

// FileName is the fixed output file name for the mode.
func (m Mode) FileName() string {
	if m == DiffOnly {
		return "differences.csv"
	}
	return "all_info.csv"
}

// Destination selects where an export goes.
type Destination int

const (
	Save Destination = iota
	Share
)

// ParseDestination accepts "save" or "share".
func ParseDestination(s string) (Destination, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "save", "":
		return Save, nil
	case "share":
		return Share, nil
	}
	return Save, fmt.Errorf("unknown destination %q (want save or share)", s)
}

func (d Destination) String() string {
	if d == Share {
		return "share"
	}
	return "save"
}

// Options configure both destinations. Dir applies to Save; the rest to Share.
type Options struct {
	Dir string

	Bucket   string
	Prefix   string
	Region   string
	Profile  string
	Endpoint string
	KeyID    string
	Secret   string
	// LinkExpiry > 0 returns a presigned https link instead of an s3:// URI.
	LinkExpiry time.Duration
	// StageMaxAge purges staged copies older than this many hours.
	StageMaxAge int
}

// Uploader is the subset of the S3 client used for sharing.
type Uploader interface {
	PutObject(ctx context.Context, in *s3v2.PutObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
}

// Exporter writes comparison rows to a directory or an S3 bucket.
type Exporter struct {
	opts     Options
	uploader Uploader
}

// Option customizes an Exporter.
type Option func(*Exporter)

// WithUploader replaces the S3 client built from Options.
func WithUploader(u Uploader) Option {
	return func(e *Exporter) { e.uploader = u }
}

// New returns an Exporter for opts.
func New(opts Options, extra ...Option) *Exporter {
	e := &Exporter{opts: opts}
	for _, o := range extra {
		o(e)
	}
	return e
}

// ExportOrShare serializes rows and delivers the file named for mode to dest.
// It returns the written path, or the s3:// URI (or presigned link) for Share.
func (e *Exporter) ExportOrShare(ctx context.Context, rows []table.Record, mode Mode, dest Destination) (string, error) {
	name := mode.FileName()
	op := dest.String()

	if len(rows) == 0 {
		return "", &ExportError{Op: op, Name: name, Err: ErrNothingToExport}
	}

	text, err := table.Serialize(rows)
	if err != nil {
		return "", &ExportError{Op: op, Name: name, Err: err}
	}
	data := []byte(text)
	log.Debugf("export: mode=%s dest=%s rows=%d size=%s", mode, dest, len(rows), humanize.Bytes(uint64(len(data))))

	var where string
	if dest == Share {
		where, err = e.share(ctx, name, data)
	} else {
		where, err = e.save(name, data)
	}
	if err != nil {
		return "", &ExportError{Op: op, Name: name, Err: err}
	}
	log.Infof("exported %s to %s", name, where)
	return where, nil
}

// save writes through a temp file in the target directory so a reader never
// sees a partial file.
func (e *Exporter) save(name string, data []byte) (string, error) {
	dir := e.opts.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return "", err
	}

	tmp, err := os.CreateTemp(dir, ".csvcmp-*.csv")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil { //nolint:mnd
		return "", err
	}

	dst := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", err
	}
	return dst, nil
}

func (e *Exporter) share(ctx context.Context, name string, data []byte) (string, error) {
	if e.opts.Bucket == "" {
		return "", ErrNoBucket
	}

	if err := cacheutil.Purge(e.opts.StageMaxAge); err != nil {
		log.WithError(err).Warnf("stage purge failed")
	}
	// Upload the staged copy; memory is the fallback when caching is off.
	var body io.Reader = bytes.NewReader(data)
	size := int64(len(data))
	if p, err := cacheutil.Stage([]string{"share"}, name, data); err != nil {
		log.WithError(err).Warnf("staging %s failed, uploading from memory", name)
	} else if p != "" {
		f, err := os.Open(p)
		if err != nil {
			log.WithError(err).Warnf("opening staged %s failed, uploading from memory", p)
		} else {
			defer f.Close() //nolint:errcheck
			if fi, err := f.Stat(); err == nil {
				body, size = f, fi.Size()
				log.Debugf("sharing staged copy %s", p)
			}
		}
	}

	uploader := e.uploader
	if uploader == nil {
		client, err := e.client(ctx)
		if err != nil {
			return "", err
		}
		uploader = client
	}

	key := path.Join(strings.Trim(e.opts.Prefix, "/"), name)
	_, err := uploader.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket:        awsv2.String(e.opts.Bucket),
		Key:           awsv2.String(key),
		Body:          body,
		ContentLength: awsv2.Int64(size),
		ContentType:   awsv2.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3://%s/%s: %w", e.opts.Bucket, key, err)
	}

	uri := fmt.Sprintf("s3://%s/%s", e.opts.Bucket, key)
	if e.opts.LinkExpiry <= 0 {
		return uri, nil
	}

	client, ok := uploader.(*s3v2.Client)
	if !ok {
		log.Warnf("cannot presign with %T; returning %s", uploader, uri)
		return uri, nil
	}
	link, err := aws.PresignGet(ctx, client, e.opts.Bucket, key, e.opts.LinkExpiry)
	if err != nil {
		log.WithError(err).Warnf("presign failed; returning %s", uri)
		return uri, nil
	}
	return link, nil
}

func (e *Exporter) client(ctx context.Context) (*s3v2.Client, error) {
	cfg, err := aws.LoadAWSConfig(ctx,
		aws.WithProfile(e.opts.Profile),
		aws.WithRegion(e.opts.Region),
		aws.WithStaticCredentials(e.opts.KeyID, e.opts.Secret),
		aws.WithRetryer(func() awsv2.Retryer {
			return retry.AddWithMaxAttempts(retry.NewStandard(), maxAttempts)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return aws.NewS3(cfg, aws.WithS3Endpoint(e.opts.Endpoint)), nil
}
