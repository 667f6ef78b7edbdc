package project

import (
	"path/filepath"
	"reflect"
	"testing"

	"strokeplot/internal/toolpath"
	"strokeplot/internal/trace"
	"strokeplot/pkg/geometry"
)

func TestSaveLoadJob(t *testing.T) {
	tr, err := trace.NewTrajectory(trace.Green, []geometry.PointInt{geometry.Pt(0, 8000), geometry.Pt(8000, 0)})
	if err != nil {
		t.Fatalf("trajectory: %v", err)
	}
	trajectories := []trace.Trajectory{tr}
	cmds := toolpath.Encode(trajectories, toolpath.EncodeOptions{})

	dir := t.TempDir()
	path := filepath.Join(dir, "job.json")
	job := New(trajectories, cmds)
	job.Device = geometry.NewExtent(8000, 8000)
	job.ContourMode = trace.ContourExternal
	job.SetImage(path, filepath.Join(dir, "art", "drawing.png"))
	if err := job.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ContourMode != trace.ContourExternal {
		t.Fatalf("contour mode: %s", loaded.ContourMode)
	}
	if got := loaded.GetImagePath(path); got != filepath.Join(dir, "art", "drawing.png") {
		t.Fatalf("image path: %s", got)
	}

	gotCmds, err := loaded.ParseCommands()
	if err != nil {
		t.Fatalf("commands: %v", err)
	}
	if !reflect.DeepEqual(gotCmds, cmds) {
		t.Fatalf("commands differ: %v vs %v", gotCmds, cmds)
	}
	gotTr, err := loaded.ParseTrajectories()
	if err != nil {
		t.Fatalf("trajectories: %v", err)
	}
	if gotTr[0].Color() != trace.Green || !reflect.DeepEqual(gotTr[0].Points(), tr.Points()) {
		t.Fatalf("trajectory differs")
	}
}

func TestLoadRejectsOtherVersions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.json")
	job := New(nil, []toolpath.Command{toolpath.End()})
	job.Version = 99
	if err := job.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected version error")
	}
}
