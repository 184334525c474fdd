// Package hostkeys fetches the SSH host keys GitHub publishes through
// its meta API.
//
// ssh-keyscan trusts whatever answers on port 22; the meta API is the
// authoritative statement of which host keys GitHub actually operates.
// Comparing the two turns trust-on-first-use into a verified trust
// decision:
//
//	published, err := hostkeys.Fetcher{}.Fetch(ctx)
//	if err == nil {
//	    rogue := published.Verify(scannedKeys)
//	    // non-empty rogue means the scan saw a key GitHub does not publish
//	}
package hostkeys
