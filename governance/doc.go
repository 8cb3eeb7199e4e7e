// Package governance implements the timelock that holds the TimeLocker role
// on custody contracts.
//
// Privileged changes are queued by the admin with an execution time (eta) at
// least Delay in the future, and can be executed between eta and
// eta+GracePeriod. After that window the transaction is stale and can only be
// re-queued. A queued transaction may be canceled at any time before it runs.
//
// Targets authorize the timelock independently: executing a call does not
// bypass the target's own TimeLocker check, so a timelock that has been
// rotated out can still queue and execute, but its calls fail at the target.
package governance
