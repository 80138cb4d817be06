// Package apipath composes versioned route patterns. All path construction
// derives from a Version value, so introducing v2 means supplying a new
// Version, not touching controller logic.
package apipath

import "strings"

// Version supplies the two leading path constants.
type Version struct {
	API     string
	Version string
}

// V1 is the current API version.
var V1 = Version{API: "api", Version: "v1"}

// Root is the version prefix, e.g. "/api/v1".
func (v Version) Root() string {
	return "/" + v.API + "/" + v.Version
}

// Builder accumulates path segments under a version prefix. The zero-ish
// entry point is Version.Path(); segments append immutably so a parent
// controller's builder can be extended by nested controllers without
// affecting the parent.
type Builder struct {
	version  Version
	segments []string
}

// Path starts a builder at the version root.
func (v Version) Path() Builder {
	return Builder{version: v}
}

// Constant appends a literal segment, e.g. a resource schema name.
func (b Builder) Constant(segment string) Builder {
	return b.append(segment)
}

// Parameter appends a chi-style path parameter, e.g. "{userID}".
func (b Builder) Parameter(key string) Builder {
	return b.append("{" + key + "}")
}

func (b Builder) append(segment string) Builder {
	next := make([]string, len(b.segments), len(b.segments)+1)
	copy(next, b.segments)
	return Builder{version: b.version, segments: append(next, segment)}
}

// String renders the full route pattern, e.g. "/api/v1/users/{userID}".
func (b Builder) String() string {
	if len(b.segments) == 0 {
		return b.version.Root()
	}
	return b.version.Root() + "/" + strings.Join(b.segments, "/")
}
