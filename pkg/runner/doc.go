// Package runner executes external CLIs (kubectl, helm) as argument vectors.
//
// Every invocation returns the combined output together with a typed
// *QueryError on failure, so callers can store what the tool printed and
// still know the exit status. Execution goes through k8s.io/utils/exec so
// tests substitute fakes from k8s.io/utils/exec/testing.
package runner
