package notify

import _ "embed"

//go:embed remediation.sql
var remediationScript string

// RemediationScript returns the repair script offered with schema drift
// notices. It is also the reference list of columns the gateway writes.
func RemediationScript() string {
	return remediationScript
}
