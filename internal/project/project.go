// Package project provides job file handling and persistence.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"strokeplot/internal/toolpath"
	"strokeplot/internal/trace"
	"strokeplot/pkg/geometry"
)

// CurrentVersion is the job file format version written by Save.
const CurrentVersion = 1

// File represents an exported plot job (.json): the final trajectories and
// the command stream derived from them.
type File struct {
	Version int       `json:"version"`
	Created time.Time `json:"created"`

	// Image path (relative to the job file)
	ImagePath string `json:"image,omitempty"`

	Source      geometry.Extent           `json:"source"`
	Device      geometry.Extent           `json:"device"`
	ContourMode trace.ContourMode         `json:"contour_mode"`
	FirstPoint  toolpath.FirstPointPolicy `json:"first_point"`

	Trajectories []Stroke `json:"trajectories"`
	Commands     []string `json:"commands"`
}

// Stroke is the serialized form of a trajectory.
type Stroke struct {
	Color  trace.Color         `json:"color"`
	Points []geometry.PointInt `json:"points"`
}

// New creates a job file from final trajectories and commands.
func New(trajectories []trace.Trajectory, cmds []toolpath.Command) *File {
	strokes := make([]Stroke, len(trajectories))
	for i, t := range trajectories {
		strokes[i] = Stroke{Color: t.Color(), Points: t.Points()}
	}
	return &File{
		Version:      CurrentVersion,
		Created:      time.Now(),
		Trajectories: strokes,
		Commands:     toolpath.Lines(cmds),
	}
}

// Load loads a job from a file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var job File
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("job parse failed (%s): %w", path, err)
	}
	if job.Version != CurrentVersion {
		return nil, fmt.Errorf("job %s: unsupported version %d", path, job.Version)
	}

	return &job, nil
}

// Save saves the job to a file.
func (p *File) Save(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SetImage sets the image path (relative to the job file).
func (p *File) SetImage(jobPath, imagePath string) {
	abs, err := filepath.Abs(imagePath)
	if err != nil {
		p.ImagePath = imagePath
		return
	}
	rel, err := filepath.Rel(filepath.Dir(jobPath), abs)
	if err != nil {
		p.ImagePath = imagePath
	} else {
		p.ImagePath = rel
	}
}

// GetImagePath returns the absolute path to the image.
func (p *File) GetImagePath(jobPath string) string {
	if p.ImagePath == "" {
		return ""
	}
	if filepath.IsAbs(p.ImagePath) {
		return p.ImagePath
	}
	return filepath.Join(filepath.Dir(jobPath), p.ImagePath)
}

// ParseCommands decodes the stored command lines.
func (p *File) ParseCommands() ([]toolpath.Command, error) {
	cmds := make([]toolpath.Command, len(p.Commands))
	for i, line := range p.Commands {
		c, err := toolpath.ParseCommand(line)
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
		cmds[i] = c
	}
	return cmds, nil
}

// ParseTrajectories rebuilds the stored trajectories.
func (p *File) ParseTrajectories() ([]trace.Trajectory, error) {
	out := make([]trace.Trajectory, len(p.Trajectories))
	for i, s := range p.Trajectories {
		t, err := trace.NewTrajectory(s.Color, s.Points)
		if err != nil {
			return nil, fmt.Errorf("trajectory %d: %w", i, err)
		}
		out[i] = t
	}
	return out, nil
}
