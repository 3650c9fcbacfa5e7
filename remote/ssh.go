package remote

import (
	"fmt"
	"io"
	"os/exec"
	"strconv"

	rsfs "github.com/m-manu/recursive-input/fs"
	"github.com/pkg/sftp"
)

// SSHArgs builds the connection options for the system ssh binary
// based on the given Location and optional explicit key path.
func SSHArgs(loc Location, explicitKeyPath string) []string {
	args := make([]string, 0, 8)
	if loc.User != "" {
		args = append(args, "-l", loc.User)
	}
	if loc.Port != 0 {
		args = append(args, "-p", strconv.Itoa(loc.Port))
	}
	if explicitKeyPath != "" {
		args = append(args, "-i", explicitKeyPath)
	}
	return args
}

// SSHSubsystemCommand creates an exec.Cmd that invokes an SSH subsystem (e.g. sftp).
func SSHSubsystemCommand(loc Location, explicitKeyPath string, subsystem string) *exec.Cmd {
	args := SSHArgs(loc, explicitKeyPath)
	args = append(args, "-s", loc.Host, subsystem)
	return exec.Command("ssh", args...)
}

// Session is an SFTP conversation with one host, carried by a system ssh process.
type Session struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	client *sftp.Client
	fs     *rsfs.SFTPFS
}

// DialSFTP launches ssh with the sftp subsystem for loc and speaks SFTP over its pipes.
// ssh's own diagnostics go to stderr.
func DialSFTP(loc Location, explicitKeyPath string, stderr io.Writer) (*Session, error) {
	sshCmd := SSHSubsystemCommand(loc, explicitKeyPath, "sftp")
	sshCmd.Stderr = stderr

	sshStdin, err := sshCmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("SFTP stdin pipe failed: %w", err)
	}
	sshStdout, err := sshCmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("SFTP stdout pipe failed: %w", err)
	}
	if err := sshCmd.Start(); err != nil {
		return nil, fmt.Errorf("SFTP ssh command failed: %w", err)
	}

	client, err := sftp.NewClientPipe(sshStdout, sshStdin)
	if err != nil {
		_ = sshCmd.Process.Kill()
		_ = sshCmd.Wait()
		return nil, fmt.Errorf("SFTP connection to %s failed: %w", loc.SSHSpec(), err)
	}
	return &Session{
		cmd:    sshCmd,
		stdin:  sshStdin,
		client: client,
		fs:     rsfs.NewSFTPFS(client),
	}, nil
}

// FS returns the remote filesystem served by the session
func (s *Session) FS() rsfs.FileSystem {
	return s.fs
}

// Close ends the SFTP conversation and waits for ssh to exit
func (s *Session) Close() error {
	closeErr := s.client.Close()
	_ = s.stdin.Close()
	waitErr := s.cmd.Wait()
	if closeErr != nil {
		return closeErr
	}
	return waitErr
}
