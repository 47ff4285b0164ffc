// Package testing drives a reconciliation engine without a host.
//
// # Quick Start
//
// Create a tester, pump a view, and make assertions:
//
//	func TestCounter(t *testing.T) {
//	    tester := composetest.NewViewTesterWithT(t)
//	    tester.PumpView(core.Stateful(Counter{Label: "clicks "}))
//
//	    element := tester.Find(composetest.ByType[Counter]()).First()
//	    state := element.(*core.StatefulElement).State().(*CounterState)
//	    state.Increment()
//	    tester.Pump()
//
//	    if !tester.Find(composetest.ByText("clicks 1")).Exists() {
//	        t.Error("expected 'clicks 1'")
//	    }
//	}
//
// PumpView reconciles the root against the new view with the same rules
// as any child slot, so element identity survives between pumps. Use
// RemountView to start from a fresh tree.
//
// # Snapshot Testing
//
// Capture the element and render trees and compare them against a YAML
// golden file:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/counter.snapshot.yaml")
//
// Update snapshots with:
//
//	COMPOSE_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import composetest "github.com/go-drift/compose/pkg/testing"
package testing
