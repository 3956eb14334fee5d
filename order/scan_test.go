package order

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildArtifact assembles a synthetic artifact: leading junk, a line-table
// magic, NUL-separated symbol entries, the source-file mark, trailing junk.
func buildArtifact(magic []byte, entries ...string) []byte {
	var buf bytes.Buffer
	buf.WriteString("JUNKHEADER================")
	buf.Write(magic)
	for _, e := range entries {
		buf.WriteString(e)
		buf.WriteByte(0)
	}
	buf.WriteString("pkg/source.go")
	buf.WriteByte(0)
	buf.WriteString("TRAILINGJUNK")
	return buf.Bytes()
}

func TestTrimRegion_MagicToSourceMark(t *testing.T) {
	artifact := buildArtifact(magicNeedle(0xfffffff1), "Alpha", "Beta")

	region, err := trimRegion(artifact)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(region, magicNeedle(0xfffffff1)))
	assert.Contains(t, string(region), "Alpha\x00")
	assert.Contains(t, string(region), "Beta\x00")
	assert.NotContains(t, string(region), "JUNKHEADER")
	assert.NotContains(t, string(region), "source.go")
	assert.NotContains(t, string(region), "TRAILINGJUNK")
}

func TestTrimRegion_AllMagicGenerations(t *testing.T) {
	for _, magic := range lineTableMagic {
		artifact := buildArtifact(magicNeedle(magic), "Alpha")
		region, err := trimRegion(artifact)
		require.NoError(t, err, "magic %#x", magic)
		assert.Contains(t, string(region), "Alpha\x00")
	}
}

func TestTrimRegion_NoMagic(t *testing.T) {
	_, err := trimRegion([]byte("no line table in here at all"))
	assert.ErrorIs(t, err, ErrNoLineTable)
}

func TestTrimRegion_MissingSourceMarkRunsToEnd(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("prefix")
	buf.Write(magicNeedle(0xfffffff1))
	buf.WriteString("Alpha")
	buf.WriteByte(0)
	buf.WriteString("tail bytes without any mark")

	region, err := trimRegion(buf.Bytes())
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(region, []byte("tail bytes without any mark")))
}

func TestTrimRegion_EarliestMagicWins(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(magicNeedle(0xfffffffb))
	buf.WriteString("Old")
	buf.WriteByte(0)
	buf.Write(magicNeedle(0xfffffff1))
	buf.WriteString("New")
	buf.WriteByte(0)

	region, err := trimRegion(buf.Bytes())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(region, magicNeedle(0xfffffffb)))
	assert.Contains(t, string(region), "Old\x00")
}

func TestFindMember_ControlByteHeuristic(t *testing.T) {
	// "Start" first appears inside "Startup" (followed by 'u') and only
	// later as a genuine reference followed by a NUL.
	region := []byte("noise pkg.Widget.Startup\x00pkg.Widget.Start\x00more")

	off, ok := findMember(region, scanTarget{name: []byte("Start")})
	require.True(t, ok)
	assert.Equal(t, bytes.Index(region, []byte("Start\x00")), off)
}

func TestFindMember_NameAtRegionEndRejected(t *testing.T) {
	// No byte follows the match, so the heuristic cannot validate it.
	region := []byte("prefix Start")

	_, ok := findMember(region, scanTarget{name: []byte("Start")})
	assert.False(t, ok)
}

func TestFindMember_NotFound(t *testing.T) {
	_, ok := findMember([]byte("nothing relevant"), scanTarget{name: []byte("Missing")})
	assert.False(t, ok)
}

func TestFindMember_OverloadDescriptor(t *testing.T) {
	// Two same-name entries differ only in descriptor text. Each target
	// must land on its own entry regardless of scan direction.
	region := []byte("x\x00Load(s)E\x00Load(i)E\x00y")

	intOff, ok := findMember(region, scanTarget{
		name:       []byte("Load"),
		descriptor: []byte("(i)E"),
	})
	require.True(t, ok)

	strOff, ok := findMember(region, scanTarget{
		name:       []byte("Load"),
		descriptor: []byte("(s)E"),
	})
	require.True(t, ok)

	assert.Equal(t, bytes.Index(region, []byte("Load(i)E")), intOff)
	assert.Equal(t, bytes.Index(region, []byte("Load(s)E")), strOff)
	assert.Less(t, strOff, intOff)
}

func TestFindMember_OverloadSkipsFailedCandidates(t *testing.T) {
	// The first two name hits carry the wrong descriptor; the scan must
	// keep going and accept the third.
	region := []byte("Do(s)i\x00Do(b)i\x00Do(i)i\x00")

	off, ok := findMember(region, scanTarget{
		name:       []byte("Do"),
		descriptor: []byte("(i)i"),
	})
	require.True(t, ok)
	assert.Equal(t, bytes.Index(region, []byte("Do(i)i")), off)
}

func TestFindMember_OffsetsFollowRegionOrder(t *testing.T) {
	region := buildRegion(t, "pkg.T.Third", "pkg.T.First", "pkg.T.Second")

	third, ok := findMember(region, scanTarget{name: []byte("Third")})
	require.True(t, ok)
	first, ok := findMember(region, scanTarget{name: []byte("First")})
	require.True(t, ok)
	second, ok := findMember(region, scanTarget{name: []byte("Second")})
	require.True(t, ok)

	assert.Less(t, third, first)
	assert.Less(t, first, second)
}

func buildRegion(t *testing.T, entries ...string) []byte {
	t.Helper()
	region, err := trimRegion(buildArtifact(magicNeedle(0xfffffff1), entries...))
	require.NoError(t, err)
	return region
}

func TestTrimRegion_RunningBinaryCarriesRegion(t *testing.T) {
	data, err := NewExecutableSource().Bytes(Class{})
	if err != nil {
		t.Skipf("executable not readable: %v", err)
	}

	region, err := trimRegion(data)
	if err != nil {
		t.Skipf("no line table region in test binary: %v", err)
	}
	assert.NotEmpty(t, region)
}
