package sshconfig

// HostStanza builds the client config stanza binding a host to an
// identity file and login user.
//
// IdentitiesOnly keeps the client from offering every agent key to the
// server before the configured one; hosting services count those as
// failed auth attempts.
func HostStanza(host, user, identityFile string) Stanza {
	return Stanza{
		Patterns: []string{host},
		Directives: []Directive{
			{Keyword: "HostName", Value: host},
			{Keyword: "IdentityFile", Value: identityFile},
			{Keyword: "User", Value: user},
			{Keyword: "IdentitiesOnly", Value: "yes"},
		},
	}
}
