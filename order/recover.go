package order

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/conduit-lang/introspect/hierarchy"
)

// Capability controls whether the line-table strategy is attempted.
type Capability int

const (
	// CapabilityAuto probes the line facility once and remembers the answer.
	CapabilityAuto Capability = iota
	// CapabilityAvailable skips the probe and always attempts the facility.
	CapabilityAvailable
	// CapabilityUnavailable disables the line-table strategy entirely, so
	// every class goes straight to byte scanning.
	CapabilityUnavailable
)

// Config assembles a Recoverer. Every field has a working zero value:
// a runtime-backed line table, the running executable as artifact source,
// ancestry derived from the line table, an auto-detected capability, and a
// no-op logger.
type Config struct {
	// Lines supplies per-class method line tables. Defaults to a fresh
	// RuntimeLineTable, which Methods also uses to register types.
	Lines LineTable

	// Artifacts supplies compiled bytes for the byte-scan fallback.
	// Defaults to the running executable.
	Artifacts ArtifactSource

	// Ancestors supplies embedding chains for class ranking. Defaults to
	// Lines when it can serve as an AncestorSource, otherwise no ancestry.
	Ancestors AncestorSource

	// LineInfo overrides line-facility capability detection.
	LineInfo Capability

	// Logger receives one warning per unresolved signature. Defaults to a
	// no-op logger.
	Logger *zap.Logger
}

// Recoverer reconstructs the source-declaration order of methods by
// correlating member descriptors with the program's compiled artifacts.
//
// Two strategies run behind one interface: the line-table strategy asks the
// runtime (or an injected LineTable) for declaration lines, and the
// byte-scan strategy falls back to locating name and descriptor
// back-references in the raw artifact when a class's line table cannot be
// consulted at all. Per-class results are cached for the life of the
// Recoverer; a loaded class's artifact does not change, so entries are
// never invalidated.
//
// A Recoverer is safe for concurrent use.
//
// Example usage:
//
//	rec := order.NewRecoverer(order.Config{})
//	res, err := rec.Methods(&Widget{})
//	if err != nil {
//		return err
//	}
//	for _, m := range res.Members {
//		fmt.Println(m.Name)
//	}
type Recoverer struct {
	lines     LineTable
	artifacts ArtifactSource
	ancestors AncestorSource
	lineInfo  Capability
	logger    *zap.Logger

	classLines sync.Map // Class -> map[string]int, descriptor to line
	regions    sync.Map // Class -> []byte, trimmed scan region
	warned     sync.Map // signature key -> struct{}, dedups warnings
}

// Strategy labels for the unresolved-member warning.
const (
	strategyLines = "line-table"
	strategyScan  = "byte-scan"
)

// NewRecoverer builds a Recoverer from cfg, filling in defaults for zero
// fields.
func NewRecoverer(cfg Config) *Recoverer {
	r := &Recoverer{
		lines:     cfg.Lines,
		artifacts: cfg.Artifacts,
		ancestors: cfg.Ancestors,
		lineInfo:  cfg.LineInfo,
		logger:    cfg.Logger,
	}
	if r.lines == nil {
		r.lines = NewRuntimeLineTable()
	}
	if r.ancestors == nil {
		if src, ok := r.lines.(AncestorSource); ok {
			r.ancestors = src
		}
	}
	if r.artifacts == nil {
		r.artifacts = NewExecutableSource()
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// position is the recovered location of one input member: a line number or
// a scan-region byte offset, comparable only within one class.
type position struct {
	resolved bool
	value    int
}

// Recover reorders members by their recovered source positions.
//
// Members are grouped by declaring class and the classes ranked so that
// ancestors come before descendants. Each class is resolved by the
// line-table strategy first; when that strategy fails for the class as a
// whole, the byte-scan strategy takes over. The final order is class rank
// ascending, then position ascending, with unresolved members after the
// resolved ones of their class and ties keeping input order. The input
// slice is never modified.
//
// Result.Resolved is true only when every member received a position. The
// returned error is non-nil only for artifact read failures; everything
// else, including completely unavailable facilities, degrades to a partial
// or unchanged order with Resolved false.
func (r *Recoverer) Recover(members []Member) (Result, error) {
	if len(members) == 0 {
		return Result{Members: []Member{}, Resolved: true}, nil
	}

	groups := rankClasses(members, r.ancestors)
	pos := make([]position, len(members))
	var ioErr error

	for _, g := range groups {
		if r.resolveByLines(g, members, pos) {
			r.warnUnresolved(g, members, pos, strategyLines)
			continue
		}
		if err := r.resolveByScan(g, members, pos); err != nil {
			ioErr = multierr.Append(ioErr, err)
		}
		r.warnUnresolved(g, members, pos, strategyScan)
	}

	rank := make([]int, len(members))
	for gi, g := range groups {
		for _, mi := range g.members {
			rank[mi] = gi
		}
	}

	idx := make([]int, len(members))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if rank[ia] != rank[ib] {
			return rank[ia] < rank[ib]
		}
		pa, pb := pos[ia], pos[ib]
		if pa.resolved != pb.resolved {
			return pa.resolved
		}
		if pa.resolved && pa.value != pb.value {
			return pa.value < pb.value
		}
		return false
	})

	ordered := make([]Member, len(members))
	resolved := true
	for k, i := range idx {
		ordered[k] = members[i]
		if !pos[i].resolved {
			resolved = false
		}
	}
	return Result{Members: ordered, Resolved: resolved}, ioErr
}

// Methods recovers the declaration order of the exported methods of v's
// type. It describes the type, registers it and its embedded ancestors with
// the runtime line table when one is in use, and runs Recover on the result.
func (r *Recoverer) Methods(v any) (Result, error) {
	members, err := Describe(v)
	if err != nil {
		return Result{}, err
	}
	if reg, ok := r.lines.(*RuntimeLineTable); ok {
		t := reflect.TypeOf(v)
		reg.Register(t)
		for _, a := range hierarchy.Ancestors(t) {
			reg.Register(a)
		}
	}
	return r.Recover(members)
}

// resolveByLines resolves one class group through the line-table strategy.
// It reports whether the strategy handled the class: true even when some
// members stayed unresolved (no line recorded for them), false only on
// total failure, which tells the coordinator to try the byte scan.
func (r *Recoverer) resolveByLines(g *classGroup, members []Member, pos []position) bool {
	switch r.lineInfo {
	case CapabilityUnavailable:
		return false
	case CapabilityAuto:
		if p, ok := r.lines.(interface{ LineInfoAvailable() bool }); ok && !p.LineInfoAvailable() {
			return false
		}
	}

	table, err := r.classLineMap(g.class)
	if err != nil {
		return false
	}
	for _, mi := range g.members {
		m := members[mi]
		if line, ok := table[descriptor(m.Name, m.Params, m.Results)]; ok && line > 0 {
			pos[mi] = position{resolved: true, value: line}
		}
	}
	return true
}

// classLineMap returns the cached descriptor-to-line map for a class,
// building it on first use. Only successful lookups are cached, so a class
// registered after a failed attempt gets a fresh chance.
func (r *Recoverer) classLineMap(c Class) (map[string]int, error) {
	if cached, ok := r.classLines.Load(c); ok {
		return cached.(map[string]int), nil
	}
	lines, err := r.lines.MethodLines(c)
	if err != nil {
		return nil, err
	}
	table := make(map[string]int, len(lines))
	for _, ml := range lines {
		d := descriptor(ml.Name, ml.Params, ml.Results)
		if _, dup := table[d]; !dup {
			// Duplicate signatures: first match wins.
			table[d] = ml.Line
		}
	}
	actual, _ := r.classLines.LoadOrStore(c, table)
	return actual.(map[string]int), nil
}

// resolveByScan resolves one class group against the artifact scan region.
// An unavailable artifact or a region-less artifact leaves the group
// unresolved without error; a failed read is returned as an I/O error.
func (r *Recoverer) resolveByScan(g *classGroup, members []Member, pos []position) error {
	region, err := r.classRegion(g.class)
	if err != nil {
		if errors.Is(err, ErrArtifactUnavailable) || errors.Is(err, ErrNoLineTable) {
			return nil
		}
		return fmt.Errorf("class %s: %w", g.class, err)
	}

	names := make(map[string]int, len(g.members))
	for _, mi := range g.members {
		names[members[mi].Name]++
	}

	for _, mi := range g.members {
		m := members[mi]
		target := scanTarget{name: []byte(m.Name)}
		if names[m.Name] > 1 {
			// Overloaded within the input: require the descriptor text
			// right after the name.
			target.descriptor = []byte(descriptor("", m.Params, m.Results))
		}
		if off, ok := findMember(region, target); ok {
			pos[mi] = position{resolved: true, value: off}
		}
	}
	return nil
}

// classRegion returns the cached trimmed scan region for a class, reading
// and trimming the artifact on first use. Only successes are cached.
func (r *Recoverer) classRegion(c Class) ([]byte, error) {
	if cached, ok := r.regions.Load(c); ok {
		return cached.([]byte), nil
	}
	data, err := r.artifacts.Bytes(c)
	if err != nil {
		return nil, err
	}
	region, err := trimRegion(data)
	if err != nil {
		return nil, err
	}
	actual, _ := r.regions.LoadOrStore(c, region)
	return actual.([]byte), nil
}

// warnUnresolved logs one warning per unresolved signature per Recoverer.
// Repeated recoveries of the same failing member stay quiet after the first.
func (r *Recoverer) warnUnresolved(g *classGroup, members []Member, pos []position, strategy string) {
	for _, mi := range g.members {
		if pos[mi].resolved {
			continue
		}
		m := members[mi]
		key := Key(m)
		if _, seen := r.warned.LoadOrStore(key, struct{}{}); seen {
			continue
		}
		r.logger.Warn("method position unresolved",
			zap.String("signature", key),
			zap.String("digest", KeyHash(m)),
			zap.String("class", g.class.String()),
			zap.String("strategy", strategy),
		)
	}
}
