// Package runlock serializes analysis runs per subject and tracks run
// progress. The lock is a time-boxed test-and-set: at most one active,
// non-expired lock exists per subject, and the TTL releases locks held by
// crashed runs. Progress counters are advisory and may be lost freely.
package runlock

import "time"

// DefaultTTL bounds how long a crashed run can block its subject. Runs that
// finish normally release explicitly; the TTL is the safety net.
const DefaultTTL = 120 * time.Second
