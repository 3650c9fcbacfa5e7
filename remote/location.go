package remote

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Location is an input location: either a local path or a path on a host reached over SFTP.
type Location struct {
	IsRemote bool
	User     string // empty = current user
	Host     string
	Port     int // 0 = default (22)
	Path     string
}

// ParseLocation parses an input path or split location.
//
// Rules:
//   - "sftp://[user@]host[:port]/path" → remote
//   - Starts with "/", "./", or "../" → local
//   - Contains ":" → remote (user@host:path or user@host:port:path)
//   - Everything else → local
func ParseLocation(arg string) (Location, error) {
	if arg == "" {
		return Location{}, fmt.Errorf("empty path argument")
	}
	if strings.HasPrefix(arg, "sftp://") {
		return parseURL(arg)
	}
	if isExplicitlyLocal(arg) {
		return Location{Path: arg}, nil
	}
	colonIdx := strings.Index(arg, ":")
	if colonIdx < 0 {
		return Location{Path: arg}, nil
	}
	hostPart, rest := arg[:colonIdx], arg[colonIdx+1:]
	loc := Location{IsRemote: true}
	loc.User, loc.Host = splitUserHost(hostPart)
	if loc.Host == "" {
		return Location{}, fmt.Errorf("empty host in remote path %q", arg)
	}
	// port:path, with the port being digits only
	if secondColon := strings.Index(rest, ":"); secondColon > 0 {
		if port, err := parsePort(rest[:secondColon]); err == nil {
			loc.Port = port
			rest = rest[secondColon+1:]
		}
	}
	if rest == "" {
		return Location{}, fmt.Errorf("empty path in remote spec %q", arg)
	}
	loc.Path = rest
	return loc, nil
}

func parseURL(arg string) (Location, error) {
	u, err := url.Parse(arg)
	if err != nil {
		return Location{}, fmt.Errorf("malformed sftp location %q: %w", arg, err)
	}
	if u.Hostname() == "" {
		return Location{}, fmt.Errorf("empty host in remote path %q", arg)
	}
	if u.Path == "" {
		return Location{}, fmt.Errorf("empty path in remote spec %q", arg)
	}
	loc := Location{IsRemote: true, Host: u.Hostname(), Path: u.Path}
	if u.User != nil {
		loc.User = u.User.Username()
	}
	if p := u.Port(); p != "" {
		if loc.Port, err = parsePort(p); err != nil {
			return Location{}, fmt.Errorf("bad port in %q: %w", arg, err)
		}
	}
	return loc, nil
}

func isExplicitlyLocal(p string) bool {
	return strings.HasPrefix(p, "/") || strings.HasPrefix(p, "./") || strings.HasPrefix(p, "../")
}

func splitUserHost(s string) (user string, host string) {
	if atIdx := strings.Index(s, "@"); atIdx >= 0 {
		return s[:atIdx], s[atIdx+1:]
	}
	return "", s
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if port <= 0 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range", port)
	}
	return port, nil
}

// SSHAddr returns the host:port string for SSH connection.
func (l Location) SSHAddr() string {
	port := l.Port
	if port == 0 {
		port = 22
	}
	return fmt.Sprintf("%s:%d", l.Host, port)
}

// SSHSpec returns a string like "user@host" or "host" suitable for display and ssh commands.
func (l Location) SSHSpec() string {
	if l.User != "" {
		return l.User + "@" + l.Host
	}
	return l.Host
}

// sessionKey identifies the connection a location needs
func (l Location) sessionKey() string {
	return l.User + "@" + l.SSHAddr()
}

// WithPath returns the location of p on the same host, in a form ParseLocation accepts.
// Relative local paths get a "./" prefix so that a colon in them can't be taken for a host.
func (l Location) WithPath(p string) string {
	if !l.IsRemote {
		if isExplicitlyLocal(p) || !strings.Contains(p, ":") {
			return p
		}
		return "./" + p
	}
	if l.Port != 0 {
		return fmt.Sprintf("%s:%d:%s", l.SSHSpec(), l.Port, p)
	}
	return l.SSHSpec() + ":" + p
}

func (l Location) String() string {
	return l.WithPath(l.Path)
}
