package sshexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
)

type Config struct {
	Host        string // host or host:port
	User        string
	PrivateKey  string // PEM
	HostKey     string // authorized_keys format; empty accepts any key
	DialTimeout time.Duration
}

// Runner executes one command per call on a remote host.
type Runner struct {
	addr        string
	clientCfg   *ssh.ClientConfig
	dialTimeout time.Duration
}

func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Host == "" {
		return nil, errors.New("ssh host is empty")
	}

	signer, err := ssh.ParsePrivateKey([]byte(cfg.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("parse ssh private key: %w", err)
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey()
	if cfg.HostKey != "" {
		pub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(cfg.HostKey))
		if err != nil {
			return nil, fmt.Errorf("parse ssh host key: %w", err)
		}
		hostKeyCallback = ssh.FixedHostKey(pub)
	}

	addr := cfg.Host
	if !strings.Contains(addr, ":") {
		addr = net.JoinHostPort(addr, "22")
	}

	return &Runner{
		addr: addr,
		clientCfg: &ssh.ClientConfig{
			User:            cfg.User,
			Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
			HostKeyCallback: hostKeyCallback,
			Timeout:         cfg.DialTimeout,
		},
		dialTimeout: cfg.DialTimeout,
	}, nil
}

// Run returns the command's stdout. A non-zero exit is an error carrying the
// trimmed stderr.
func (r *Runner) Run(ctx context.Context, command string) ([]byte, error) {
	dialer := net.Dialer{Timeout: r.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", r.addr)
	if err != nil {
		return nil, fmt.Errorf("ssh dial %s: %w", r.addr, err)
	}

	c, chans, reqs, err := ssh.NewClientConn(conn, r.addr, r.clientCfg)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ssh handshake: %w", err)
	}
	client := ssh.NewClient(c, chans, reqs)
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("ssh session: %w", err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() {
		done <- session.Run(command)
	}()

	select {
	case <-ctx.Done():
		// Closing the client unblocks session.Run.
		client.Close()
		<-done
		return nil, ctx.Err()
	case err := <-done:
		if err != nil {
			msg := strings.TrimSpace(stderr.String())
			if len(msg) > 300 {
				msg = msg[:300]
			}
			return nil, fmt.Errorf("remote command failed: %w: %s", err, msg)
		}
	}

	return stdout.Bytes(), nil
}
