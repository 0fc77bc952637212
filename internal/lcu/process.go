package lcu

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

const clientProcessName = "LeagueClientUx.exe"

// FindClientCredentials scans running processes for the League client and
// extracts the LCU port and auth token from its command line. When the scan
// comes up empty it falls back to the lockfile the client writes next to its
// install.
func FindClientCredentials() (*Credentials, error) {
	if creds := scanProcesses(exactName(clientProcessName), "--app-port=", "--remoting-auth-token="); creds != nil {
		return creds, nil
	}
	if creds, err := credentialsFromLockfile(); err == nil {
		return creds, nil
	}
	return nil, ErrClientNotRunning
}

// FindRiotCredentials extracts the Riot client (auxiliary) port and token.
// These live on the same LeagueClientUx command line under different flags.
func FindRiotCredentials() (*Credentials, error) {
	if creds := scanProcesses(containsName("LeagueClientUx"), "--riotclient-app-port=", "--riotclient-auth-token="); creds != nil {
		return creds, nil
	}
	return nil, ErrAuxUnavailable
}

func exactName(want string) func(string) bool {
	return func(name string) bool { return name == want }
}

func containsName(want string) func(string) bool {
	return func(name string) bool { return strings.Contains(name, want) }
}

func scanProcesses(match func(string) bool, portKey, tokenKey string) *Credentials {
	procs, err := process.Processes()
	if err != nil {
		return nil
	}

	for _, p := range procs {
		name, err := p.Name()
		if err != nil || !match(name) {
			continue
		}
		args, err := p.CmdlineSlice()
		if err != nil {
			continue
		}
		if creds := credentialsFromArgs(args, portKey, tokenKey); creds != nil {
			return creds
		}
	}
	return nil
}

// credentialsFromArgs parses --key=value tokens off a client command line.
func credentialsFromArgs(args []string, portKey, tokenKey string) *Credentials {
	var port, token string
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, portKey):
			port = arg[len(portKey):]
		case strings.HasPrefix(arg, tokenKey):
			token = arg[len(tokenKey):]
		}
	}
	if port == "" || token == "" {
		return nil
	}
	return &Credentials{Port: port, Token: token}
}

// credentialsFromLockfile reads the client lockfile
// (LeagueClient:pid:port:password:protocol) from common install locations.
func credentialsFromLockfile() (*Credentials, error) {
	path, err := findLockfile()
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseLockfile(string(content))
}

func findLockfile() (string, error) {
	paths := []string{
		"C:/Riot Games/League of Legends/lockfile",
		"D:/Riot Games/League of Legends/lockfile",
		"C:/Program Files/Riot Games/League of Legends/lockfile",
		"C:/Program Files (x86)/Riot Games/League of Legends/lockfile",
	}
	for _, drive := range []string{"E:", "F:", "G:"} {
		paths = append(paths, filepath.Join(drive, "Riot Games/League of Legends/lockfile"))
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrClientNotRunning
}

func parseLockfile(content string) (*Credentials, error) {
	parts := strings.Split(strings.TrimSpace(content), ":")
	if len(parts) != 5 {
		return nil, ErrClientNotRunning
	}
	return &Credentials{Port: parts[2], Token: parts[3]}, nil
}
