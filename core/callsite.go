package core

import (
	"regexp"
	"strconv"
)

// evalFile matches locations reported inside dynamically evaluated code:
// "/x/y.php(41) : eval()'d code".
var evalFile = regexp.MustCompile(`(.*)\((\d+)\) : eval`)

// ResolveCallSite finds the first frame outside the logging library.
//
// Leading frames without a file are skipped. The first frame with a file
// belongs to the library itself; it and every following frame of the same
// owner are skipped, then frames without a file again. The next frame is
// the call site. An exhausted stack resolves to (UnknownFile, 0).
func ResolveCallSite(frames []Frame) (string, int) {
	frames = TrimToCallSite(frames)
	if len(frames) == 0 {
		return UnknownFile, 0
	}
	return FixEvalFileLine(frames[0].File, frames[0].Line)
}

// TrimToCallSite drops the frames ResolveCallSite skips. The result starts
// at the call site, or is empty.
func TrimToCallSite(frames []Frame) []Frame {
	i := 0
	for i < len(frames) && !frames[i].HasFile() {
		i++
	}
	if i == len(frames) {
		return nil
	}
	self := frames[i].owner()
	for i < len(frames) && frames[i].HasFile() && frames[i].owner() == self {
		i++
	}
	for i < len(frames) && !frames[i].HasFile() {
		i++
	}
	if i == len(frames) {
		return nil
	}
	return frames[i:]
}

// FixEvalFileLine rewrites a location inside evaluated code to the
// location of the evaluating statement.
func FixEvalFileLine(file string, line int) (string, int) {
	m := evalFile.FindStringSubmatch(file)
	if m == nil {
		return file, line
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return file, line
	}
	return m[1], n
}
