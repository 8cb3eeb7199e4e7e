// Package main (cmd/admin) is the operator client for a running bridged.
//
// Governance changes go through the timelock: queue a transaction, wait out
// the delay, then execute it. The transaction is identified by the hash of
// its five fields, which tx-hash prints and status looks up.
//
//	admin deployment
//	admin queue   --from <admin> --target 0x.. --signature "setSigner(address,bool)" --arg 0x.. --arg true --eta 1700172800
//	admin execute --from <admin> --target 0x.. --signature "setSigner(address,bool)" --arg 0x.. --arg true --eta 1700172800
//	admin status  --target 0x.. --signature "setSigner(address,bool)" --arg 0x.. --arg true --eta 1700172800
//	admin call    --from <controller> --to <bridge> --signature "pause()"
//	admin events  --from-index 0
//	admin archive-show --uri file:///var/lib/bridged --head <snapshot id>
package main
