package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/compose/pkg/core"
	"github.com/go-drift/compose/pkg/layout"
)

type label struct {
	Text string
}

func (l label) CreateRenderObject(ctx core.BuildContext) layout.RenderObject {
	return &l
}

func TestCollectorCountsReconciliation(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCollector("demo", reg)
	require.NoError(t, err)

	ctx := core.NewFrameworkContext(core.WithObserver(collector))
	root := ctx.MountRoot(core.RenderObjectKeyed("l", label{Text: "a"}))
	ctx.UpdateRoot(root, core.RenderObjectKeyed("l", label{Text: "a"}))
	ctx.UpdateRoot(root, core.RenderObjectKeyed("l", label{Text: "b"}))
	ctx.UpdateRoot(root, core.Empty)

	assert.Equal(t, 1.0, collector.Decisions(core.DecisionInflate))
	assert.Equal(t, 1.0, collector.Decisions(core.DecisionSkip))
	assert.Equal(t, 1.0, collector.Decisions(core.DecisionUpdate))
	assert.Equal(t, 1.0, collector.Decisions(core.DecisionRemove))
	assert.Equal(t, 2.0, collector.Rebuilds(core.KindRenderObject))

	expected := `
# HELP compose_rebuilds_total Element rebuilds by view kind.
# TYPE compose_rebuilds_total counter
compose_rebuilds_total{app="demo",kind="render"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "compose_rebuilds_total"))
}

func TestCollectorReusesRegisteredCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCollector("a", reg)
	require.NoError(t, err)
	second, err := NewCollector("b", reg)
	require.NoError(t, err)

	first.OnRebuild(core.KindStateless)
	second.OnRebuild(core.KindStateless)

	count, err := testutil.GatherAndCount(reg, "compose_rebuilds_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per app label")
}

func TestCollectorWithoutRegistry(t *testing.T) {
	collector, err := NewCollector("bare", nil)
	require.NoError(t, err)
	collector.OnReconcile(core.DecisionReplace, core.KindStateful)
	assert.Equal(t, 1.0, collector.Decisions(core.DecisionReplace))
}
