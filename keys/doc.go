// Package keys handles private key material: normalization of pasted
// blobs, structural validation, fingerprints, and installation to disk
// with owner-only permissions.
//
// Key material arriving from a secrets store is frequently mangled by
// copy-paste (indented lines, missing trailing newline). Normalize
// repairs exactly that class of damage and nothing else:
//
//	material, err := keys.Parse(secretValue)
//	if err != nil {
//	    // empty, encrypted, or not a private key
//	}
//	err = material.Install(filepath.Join(sshDir, "id_rsa_github"))
package keys
