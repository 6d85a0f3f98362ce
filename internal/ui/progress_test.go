package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udonc/internal/buildpipeline"
)

func newModel(t *testing.T, files ...string) *progressModel {
	t.Helper()
	m, ok := NewProgressModel("compiling", files, nil).(*progressModel)
	require.True(t, ok)
	return m
}

func TestApplyEventTracksStages(t *testing.T) {
	m := newModel(t, "Assets/a.cs", "Assets/b.cs")

	m.applyEvent(buildpipeline.Event{File: "Assets/a.cs", Stage: buildpipeline.StageBind, Status: buildpipeline.StatusWorking})
	assert.Equal(t, "binding", m.items[0].status)
	assert.Equal(t, "queued", m.items[1].status)
	assert.InDelta(t, 0.2, m.percent(), 1e-9)

	m.applyEvent(buildpipeline.Event{File: "Assets/a.cs", Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusDone})
	m.applyEvent(buildpipeline.Event{File: "Assets/b.cs", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusError})
	assert.Equal(t, "done", m.items[0].status)
	assert.Equal(t, "error", m.items[1].status)
	assert.InDelta(t, 1.0, m.percent(), 1e-9)

	// unknown files are ignored
	m.applyEvent(buildpipeline.Event{File: "other.cs", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking})
	assert.Len(t, m.items, 2)
}

func TestOverallEventSetsHeader(t *testing.T) {
	m := newModel(t, "a.cs")
	m.applyEvent(buildpipeline.Event{Stage: buildpipeline.StageLower, Status: buildpipeline.StatusWorking})
	assert.Equal(t, "lowering", m.stageLabel)
	assert.Contains(t, m.View(), "compiling (lowering)")
}

func TestViewListsFiles(t *testing.T) {
	m := newModel(t, "a.cs", "b.cs")
	m.done = true
	view := m.View()
	assert.True(t, strings.Contains(view, "done: compiling"), view)
	assert.Contains(t, view, "a.cs")
	assert.Contains(t, view, "b.cs")

	assert.Empty(t, newModel(t).View())
}

func TestFilesAreKeyedByDisplayPath(t *testing.T) {
	m := newModel(t, "./Assets//a.cs")
	require.Contains(t, m.index, "Assets/a.cs")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	for _, s := range []string{"abcdefghijklmnop", "日本語テキストのファイル.cs"} {
		got := truncate(s, 10)
		assert.True(t, strings.HasSuffix(got, "..."), got)
		assert.LessOrEqual(t, runewidth.StringWidth(got), 10, got)
	}
}

func TestErrorDetailAndCounters(t *testing.T) {
	m := newModel(t, "a.cs", "b.cs", "a.cs")
	require.Len(t, m.items, 2)

	m.applyEvent(buildpipeline.Event{File: "a.cs", Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusDone})
	m.applyEvent(buildpipeline.Event{
		File:   "b.cs",
		Stage:  buildpipeline.StageBind,
		Status: buildpipeline.StatusError,
		Err:    errors.New("b.cs: 1 semantic error(s)\nmore"),
	})
	assert.Equal(t, "b.cs: 1 semantic error(s)", m.items[1].err)

	view := m.View()
	assert.Contains(t, view, "compiling 2/2")
	assert.Contains(t, view, "1 failed")
	assert.NotContains(t, view, "more")
}
