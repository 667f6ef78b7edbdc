package app

import (
	"bytes"
	"context"
	goimage "image"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"strokeplot/internal/config"
	"strokeplot/internal/image"
	"strokeplot/internal/project"
	"strokeplot/internal/testutil/testlog"
	"strokeplot/internal/toolpath"
	"strokeplot/internal/trace"
)

type recordingSender struct {
	sent []toolpath.Command
}

func (r *recordingSender) Send(_ context.Context, cmd toolpath.Command) ([]string, error) {
	r.sent = append(r.sent, cmd)
	return []string{"ok"}, nil
}

func layerWith(w, h int, blocks map[goimage.Rectangle]color.NRGBA) *image.Layer {
	img := goimage.NewNRGBA(goimage.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
		}
	}
	for r, c := range blocks {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				img.SetNRGBA(x, y, c)
			}
		}
	}
	return &image.Layer{Path: "synthetic.png", Image: img}
}

func TestPlanEmptyImageIsJustEnd(t *testing.T) {
	testlog.Start(t)
	job, err := Plan(layerWith(32, 32, nil), config.Default())
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	cmds := job.Commands()
	if len(cmds) != 1 || cmds[0] != toolpath.End() {
		t.Fatalf("expected [END], got %v", cmds)
	}
	if len(job.Snapshot().Trajectories) != 0 {
		t.Fatalf("expected no trajectories")
	}
}

func TestPlanScalesIntoDeviceUnits(t *testing.T) {
	testlog.Start(t)
	layer := layerWith(40, 20, map[goimage.Rectangle]color.NRGBA{
		goimage.Rect(2, 2, 10, 10):  {0, 0, 255, 255},
		goimage.Rect(20, 5, 30, 15): {255, 0, 0, 255},
	})
	cfg := config.Default()
	cfg.Vectorize.ContourMode = trace.ContourExternal

	job, err := Plan(layer, cfg)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	snap := job.Snapshot()
	if len(snap.Trajectories) != 2 {
		t.Fatalf("expected 2 trajectories, got %d", len(snap.Trajectories))
	}
	if snap.Trajectories[0].Color() != trace.Red || snap.Trajectories[1].Color() != trace.Blue {
		t.Fatalf("red must precede blue")
	}
	for _, tr := range snap.Trajectories {
		b := tr.Bounds()
		if b.X < 0 || b.Y < 0 || b.X+b.Width > 8000 || b.Y+b.Height > 8000 {
			t.Fatalf("trajectory outside device range: %+v", b)
		}
	}

	cmds := job.Commands()
	if cmds[0] != toolpath.ChangeColor(trace.Red) || cmds[len(cmds)-1] != toolpath.End() {
		t.Fatalf("unexpected framing: first=%s last=%s", cmds[0], cmds[len(cmds)-1])
	}
	if job.Stats().ColorChanges != 2 {
		t.Fatalf("color changes: %d", job.Stats().ColorChanges)
	}

	// Mutating the snapshot must not reach the job
	snap.Trajectories[0] = snap.Trajectories[1]
	if job.Snapshot().Trajectories[0].Color() != trace.Red {
		t.Fatalf("snapshot aliases job state")
	}
}

func TestPrintAndSendAgree(t *testing.T) {
	testlog.Start(t)
	layer := layerWith(16, 16, map[goimage.Rectangle]color.NRGBA{
		goimage.Rect(4, 4, 12, 12): {0, 255, 0, 255},
	})
	job, err := Plan(layer, config.Default())
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	var out bytes.Buffer
	if err := job.Print(&out); err != nil {
		t.Fatalf("print: %v", err)
	}
	printed := strings.Split(strings.TrimSpace(out.String()), "\n")

	rec := &recordingSender{}
	n, err := job.Send(context.Background(), rec)
	if err != nil || n != len(printed) {
		t.Fatalf("send: n=%d err=%v", n, err)
	}
	for i, c := range rec.sent {
		if c.Line() != printed[i] {
			t.Fatalf("line %d: sent %q printed %q", i, c.Line(), printed[i])
		}
	}
}

func TestExportAndPreview(t *testing.T) {
	testlog.Start(t)
	layer := layerWith(16, 16, map[goimage.Rectangle]color.NRGBA{
		goimage.Rect(4, 4, 12, 12): {255, 0, 0, 255},
	})
	job, err := Plan(layer, config.Default())
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	dir := t.TempDir()
	jobPath := filepath.Join(dir, "job.json")
	if err := job.Export(jobPath); err != nil {
		t.Fatalf("export: %v", err)
	}
	loaded, err := project.Load(jobPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Commands) != len(job.Commands()) {
		t.Fatalf("exported %d commands, job has %d", len(loaded.Commands), len(job.Commands()))
	}
	if loaded.Source.X.Max != 16 || loaded.Device.X.Max != 8000 {
		t.Fatalf("extents not exported: %+v %+v", loaded.Source, loaded.Device)
	}

	if err := job.Preview(filepath.Join(dir, "preview.svg")); err != nil {
		t.Fatalf("preview: %v", err)
	}
}
