package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
)

// CheckStatus is a Nagios plugin state. Its value is the process exit code.
type CheckStatus int

const (
	CheckOK CheckStatus = iota
	CheckWarning
	CheckCritical
	CheckUnknown
)

// String returns the state name used in the status line
func (s CheckStatus) String() string {
	switch s {
	case CheckOK:
		return "OK"
	case CheckWarning:
		return "WARNING"
	case CheckCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Thresholds are response time limits. A zero value is not checked.
type Thresholds struct {
	Warning  time.Duration
	Critical time.Duration
}

// CheckResult is the outcome of a check
type CheckResult struct {
	Status CheckStatus
	// Line is the complete plugin output including performance data
	Line string
}

// CheckService is an interface for evaluating a single-request probe
type CheckService interface {
	// Evaluate turns the records of a probe into a plugin result
	Evaluate(records []model.ResultRecord, httpVersion string) CheckResult
	// Unknown reports an error that prevented the probe from running
	Unknown(err error) CheckResult
}

// checkService is an implementation of CheckService
type checkService struct {
	thresholds Thresholds
}

// NewCheckService creates a new CheckService instance
func NewCheckService(thresholds Thresholds) CheckService {
	return &checkService{thresholds: thresholds}
}

// Evaluate checks the first record. A status other than 200 is critical,
// otherwise the elapsed time is compared with the critical threshold first.
func (s *checkService) Evaluate(records []model.ResultRecord, httpVersion string) CheckResult {
	if len(records) == 0 {
		return CheckResult{
			Status: CheckCritical,
			Line:   prefix(CheckCritical) + "Expected to receive one result but did not.",
		}
	}

	r := records[0]
	elapsed := r.ElapsedMillis()
	var status CheckStatus
	var sb strings.Builder

	switch {
	case r.StatusCode != 200:
		status = CheckCritical
		sb.WriteString(prefix(status))
		fmt.Fprintf(&sb, "Expected 200 response code but received %d response code for url=%s ", r.StatusCode, r.URL)
		if r.Error != "" {
			fmt.Fprintf(&sb, "(%s) ", r.Error)
		}
	case s.thresholds.Critical > 0 && elapsed >= s.thresholds.Critical.Milliseconds():
		status = CheckCritical
		sb.WriteString(prefix(status))
		fmt.Fprintf(&sb, "Expected response in less than %dms but was %dms. ", s.thresholds.Critical.Milliseconds(), elapsed)
	case s.thresholds.Warning > 0 && elapsed >= s.thresholds.Warning.Milliseconds():
		status = CheckWarning
		sb.WriteString(prefix(status))
		fmt.Fprintf(&sb, "Expected response in less than %dms but was %dms. ", s.thresholds.Warning.Milliseconds(), elapsed)
	default:
		status = CheckOK
		sb.WriteString(prefix(status))
	}

	fmt.Fprintf(&sb, "HTTP/%s %d - %d millisecond response time", versionLabel(httpVersion), r.StatusCode, elapsed)
	sb.WriteString(s.performanceData(elapsed))
	return CheckResult{Status: status, Line: sb.String()}
}

// Unknown reports err as an UNKNOWN result
func (s *checkService) Unknown(err error) CheckResult {
	return CheckResult{Status: CheckUnknown, Line: prefix(CheckUnknown) + err.Error()}
}

// performanceData renders "| Time=<ms>;<warn>;<crit>;;"
func (s *checkService) performanceData(elapsed int64) string {
	var sb strings.Builder
	sb.WriteString(" | Time=")
	sb.WriteString(strconv.FormatInt(elapsed, 10))
	sb.WriteByte(';')
	if s.thresholds.Warning > 0 {
		sb.WriteString(strconv.FormatInt(s.thresholds.Warning.Milliseconds(), 10))
	}
	sb.WriteByte(';')
	if s.thresholds.Critical > 0 {
		sb.WriteString(strconv.FormatInt(s.thresholds.Critical.Milliseconds(), 10))
	}
	sb.WriteString(";;")
	return sb.String()
}

func prefix(status CheckStatus) string {
	return "AJP " + status.String() + ": "
}

func versionLabel(v string) string {
	switch v {
	case "1", "1.0":
		return "1.0"
	default:
		return "1.1"
	}
}
