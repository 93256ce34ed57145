// Package history persists application outcomes to CSV files and rebuilds
// the applied-job set on startup.
package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const timeLayout = "2006-01-02 15:04:05"

var appliedHeader = []string{
	"Job ID", "Title", "Company", "Work Location", "Work Style", "About Job",
	"Experience required", "Skills required", "HR Name", "HR Link", "Resume",
	"Re-posted", "Date Posted", "Date Applied", "Job Link", "External Job link",
	"Questions Found", "Connect Request",
}

var failedHeader = []string{
	"Job ID", "Title", "Company", "Assumed Reason", "Error", "Date Tried",
	"Job Link", "Screenshot",
}

// Record is one successful or external application.
type Record struct {
	JobID          string
	Title          string
	Company        string
	WorkLocation   string
	WorkStyle      string
	AboutJob       string
	Experience     string
	Skills         []string
	HRName         string
	HRLink         string
	Resume         string
	Reposted       bool
	DatePosted     time.Time
	DateApplied    time.Time
	JobLink        string
	ExternalLink   string
	QuestionsFound int
	ConnectRequest string
}

// FailedRecord is one application that was attempted but not submitted.
type FailedRecord struct {
	JobID      string
	Title      string
	Company    string
	Reason     string
	Err        error
	DateTried  time.Time
	JobLink    string
	Screenshot string
}

// Log appends records to the applied and failed CSV files.
type Log struct {
	appliedPath string
	failedPath  string
	logger      *zap.Logger
}

func New(appliedPath, failedPath string, logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{
		appliedPath: appliedPath,
		failedPath:  failedPath,
		logger:      logger,
	}
}

// Append writes one applied record, adding the header when the file is new
// or empty.
func (l *Log) Append(rec *Record) error {
	datePosted := ""
	if !rec.DatePosted.IsZero() {
		datePosted = rec.DatePosted.Format(timeLayout)
	}

	row := []string{
		rec.JobID,
		rec.Title,
		rec.Company,
		rec.WorkLocation,
		rec.WorkStyle,
		rec.AboutJob,
		rec.Experience,
		strings.Join(rec.Skills, ", "),
		rec.HRName,
		rec.HRLink,
		rec.Resume,
		strconv.FormatBool(rec.Reposted),
		datePosted,
		rec.DateApplied.Format(timeLayout),
		rec.JobLink,
		rec.ExternalLink,
		strconv.Itoa(rec.QuestionsFound),
		rec.ConnectRequest,
	}

	if err := appendRow(l.appliedPath, appliedHeader, row); err != nil {
		return fmt.Errorf("append applied record: %w", err)
	}

	l.logger.Debug("application recorded",
		zap.String("job_id", rec.JobID),
		zap.String("company", rec.Company),
	)
	return nil
}

// AppendFailed writes one failed record to the failure file.
func (l *Log) AppendFailed(rec *FailedRecord) error {
	errText := ""
	if rec.Err != nil {
		errText = rec.Err.Error()
	}

	row := []string{
		rec.JobID,
		rec.Title,
		rec.Company,
		rec.Reason,
		errText,
		rec.DateTried.Format(timeLayout),
		rec.JobLink,
		rec.Screenshot,
	}

	if err := appendRow(l.failedPath, failedHeader, row); err != nil {
		return fmt.Errorf("append failed record: %w", err)
	}
	return nil
}

func appendRow(path string, header, row []string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return err
	}

	writer := csv.NewWriter(file)
	if stat.Size() == 0 {
		if err := writer.Write(header); err != nil {
			return err
		}
	}
	if err := writer.Write(row); err != nil {
		return err
	}

	writer.Flush()
	return writer.Error()
}

// AppliedJobIDs reads back the job ids recorded in the applied file so a new
// run does not re-apply. A missing file yields an empty set.
func AppliedJobIDs(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var ids []string
	first := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read history %s: %w", path, err)
		}
		if first {
			first = false
			if len(row) > 0 && row[0] == appliedHeader[0] {
				continue
			}
		}
		if len(row) > 0 && row[0] != "" {
			ids = append(ids, row[0])
		}
	}

	return ids, nil
}
