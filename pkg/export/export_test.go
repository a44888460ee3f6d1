package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceCAM/pkg/board"
)

func sampleBoard(layers int) *board.Board {
	b := board.New()
	b.Name = "test"
	b.Width = 10
	b.Height = 5
	b.Layers = layers

	c := board.NewComponent("R1")
	c.AddPin(board.Pin{Number: 1})
	c.AddPin(board.Pin{Number: 2})
	b.AddComponent(c)

	p := board.NewPlacement()
	p.Ref = "R1_1"
	p.ComponentName = "R1"
	p.Position = board.Point{X: 1, Y: 1}
	b.AddPlacement(p)
	return b
}

func TestRun(t *testing.T) {
	tests := []struct {
		name      string
		layers    int
		wantFiles []string
	}{
		{
			name:   "single layer",
			layers: 1,
			wantFiles: []string{
				"test-Edge_Cuts.gbr", "test-F_Cu.gbr", "test-F_Silkscreen.gbr", "test.drl",
			},
		},
		{
			name:   "two layers",
			layers: 2,
			wantFiles: []string{
				"test-Edge_Cuts.gbr", "test-F_Cu.gbr", "test-B_Cu.gbr",
				"test-F_Silkscreen.gbr", "test-B_Silkscreen.gbr", "test.drl",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.OutputDir = filepath.Join(t.TempDir(), "out")

			b := sampleBoard(tt.layers)
			defer b.Release()

			result, err := Run(b, cfg)
			require.NoError(t, err)
			require.NoError(t, result.Err())

			var want []string
			for _, f := range tt.wantFiles {
				want = append(want, filepath.Join(cfg.OutputDir, f))
			}
			assert.Equal(t, want, result.Files)

			entries, err := os.ReadDir(cfg.OutputDir)
			require.NoError(t, err)
			assert.Len(t, entries, len(tt.wantFiles))
		})
	}
}

func TestPlanMatchesRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.GerberExt = "gtl"
	b := sampleBoard(2)

	plan, err := Plan(b, cfg)
	require.NoError(t, err)

	result, err := Run(b, cfg)
	require.NoError(t, err)

	require.Len(t, plan, len(result.Files))
	for i, a := range plan {
		assert.Equal(t, a.Path, result.Files[i])
	}
	assert.Equal(t, "outline", plan[0].Kind)
	assert.Equal(t, "drill", plan[len(plan)-1].Kind)
}

func TestRunNilBoard(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), "never")

	_, err := Run(nil, cfg)
	assert.ErrorIs(t, err, ErrNilBoard)

	_, err = Plan(nil, cfg)
	assert.ErrorIs(t, err, ErrNilBoard)

	_, statErr := os.Stat(cfg.OutputDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConfigValidate(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "gerber", cfg.OutputDir)
	assert.Equal(t, "board", cfg.DefaultName)
	assert.Equal(t, "gbr", cfg.GerberExt)
	assert.Equal(t, "drl", cfg.DrillExt)

	cfg.DrillExt = "gbr"
	assert.Error(t, cfg.Validate())
}

func TestRunReportsFailuresWithoutAborting(t *testing.T) {
	notADir := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(notADir, nil, 0o600))

	cfg := DefaultConfig()
	cfg.OutputDir = notADir

	result, err := Run(sampleBoard(2), cfg)
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.Len(t, result.Failed, 6)
	assert.Error(t, result.Err())
}

func TestRunWarnsForUnresolvedBottomPlacementOnSingleLayer(t *testing.T) {
	b := sampleBoard(1)
	p := board.NewPlacement()
	p.Ref = "U9"
	p.ComponentName = "GHOST"
	p.TopSide = false
	b.AddPlacement(p)

	var logs bytes.Buffer
	cfg := DefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.Logger = zerolog.New(&logs).Level(zerolog.InfoLevel)

	result, err := Run(b, cfg)
	require.NoError(t, err)
	require.NoError(t, result.Err())

	var warned bool
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		if strings.Contains(line, `"level":"warn"`) &&
			strings.Contains(line, `"component":"GHOST"`) &&
			strings.Contains(line, `"placement":"U9"`) {
			warned = true
		}
	}
	assert.True(t, warned, "expected a warning naming GHOST and U9, got:\n%s", logs.String())
}
