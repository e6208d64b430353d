package collector

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/prabalesh/tasktop/internal/models"
)

func TestGetProcessListIncludesSelf(t *testing.T) {
	list, err := NewProcessCollector().GetProcessList(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if list.Total != len(list.Processes) || list.Total == 0 {
		t.Fatalf("total = %d, processes = %d", list.Total, len(list.Processes))
	}
	for _, p := range list.Processes {
		if p.PID == os.Getpid() {
			if p.Name == "" || p.WindowTitle != "N/A" {
				t.Errorf("self = %+v", p)
			}
			return
		}
	}
	t.Fatalf("pid %d not listed", os.Getpid())
}

func TestGetProcessListError(t *testing.T) {
	boom := errors.New("boom")
	c := &ProcessCollector{list: func(context.Context) ([]*process.Process, error) { return nil, boom }}
	if _, err := c.GetProcessList(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	capt := &ProcessCapturer{Collector: c}
	_, err := capt.Capture(context.Background())
	var capErr *CaptureError
	if !errors.As(err, &capErr) {
		t.Fatalf("err = %v, want CaptureError", err)
	}
}

func TestProcessCapturerLayout(t *testing.T) {
	raw, err := (&ProcessCapturer{Collector: NewProcessCollector()}).Capture(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	schema := models.DefaultSchema()
	self := strconv.Itoa(os.Getpid())
	lines := strings.Split(strings.TrimSuffix(raw, "\n"), "\n")
	for _, line := range lines[schema.HeaderLines : len(lines)-schema.FooterLines] {
		if strings.TrimSpace(schema.Column(models.SortByPID).Slice(line)) == self {
			return
		}
	}
	t.Fatalf("pid %s not found in PID column", self)
}

func TestProcessTerminator(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sleep")
	}
	cmd := exec.Command("sleep", "30")
	if err := cmd.Start(); err != nil {
		t.Fatal(err)
	}
	defer cmd.Process.Kill()

	term := &ProcessTerminator{}
	if err := term.Terminate(context.Background(), cmd.Process.Pid); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Wait(); err == nil {
		t.Fatal("process exited cleanly, want killed")
	}
}

func TestProcessTerminatorMissingProcess(t *testing.T) {
	err := (&ProcessTerminator{}).Terminate(context.Background(), 1<<30)
	var termErr *TerminationError
	if !errors.As(err, &termErr) || termErr.PID != 1<<30 {
		t.Fatalf("err = %v, want TerminationError", err)
	}
}
