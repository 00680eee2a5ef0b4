// Package version parses and compares konnector release versions.
//
// Release tags in the update repository follow "vMAJOR.MINOR.PATCH" with an
// optional pre-release suffix. A change in the major component marks an
// upgrade as mandatory:
//
//	cur := version.MustParseVersion("v1.8.2")
//	next, ok := version.Latest(tags, false)
//	if ok && cur.IsMajorUpgrade(next) {
//	    // refuse to run until upgraded
//	}
package version
