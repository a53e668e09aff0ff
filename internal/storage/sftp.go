package storage

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"path"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/nashikconnect/vyapaar/config"
)

// SFTPBucket stores objects on a remote host that serves them over HTTP.
type SFTPBucket struct {
	client  *sftp.Client
	root    string
	baseURL string
}

func NewSFTPBucket(client *sftp.Client, root, baseURL string) *SFTPBucket {
	return &SFTPBucket{client: client, root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (b *SFTPBucket) Put(ctx context.Context, key string, data []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return errors.Errorf("invalid object key %q", key)
	}
	target := path.Join(b.root, clean)
	if err := b.client.MkdirAll(path.Dir(target)); err != nil {
		return errors.Wrap(err, "create remote directory")
	}
	f, err := b.client.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL)
	if err != nil {
		return errors.Wrap(err, "create remote object")
	}
	if _, err := f.ReadFrom(bytes.NewReader(data)); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "upload remote object")
	}
	return f.Close()
}

func (b *SFTPBucket) PublicURL(key string) string {
	return b.baseURL + "/" + key
}

type sftpConn struct {
	client *sftp.Client
	ssh    *ssh.Client
}

func (c *sftpConn) Close() error {
	_ = c.client.Close()
	return c.ssh.Close()
}

func dialSFTP(cfg config.StorageConfig) (*sftpConn, error) {
	sshConfig := &ssh.ClientConfig{
		User:            cfg.SftpUser,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.SftpPasswd)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // storage host lives on the private network
		Timeout:         10 * time.Second,
	}
	addr := net.JoinHostPort(cfg.SftpHost, fmt.Sprint(cfg.SftpPort))
	sshClient, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		return nil, errors.Wrapf(err, "ssh dial %s", addr)
	}
	client, err := sftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()
		return nil, errors.Wrap(err, "start sftp session")
	}
	return &sftpConn{client: client, ssh: sshClient}, nil
}

// Open provisions the configured buckets on the configured backend.
func Open(cfg config.StorageConfig, localDir string) (*Buckets, error) {
	bs := &Buckets{items: map[string]Bucket{}}
	base := strings.TrimRight(cfg.PublicURL, "/")
	switch cfg.Driver {
	case "", "local":
		for _, name := range cfg.Buckets {
			bs.items[name] = NewLocalBucket(path.Join(localDir, name), base+"/"+name)
		}
	case "sftp":
		conn, err := dialSFTP(cfg)
		if err != nil {
			return nil, err
		}
		for _, name := range cfg.Buckets {
			bs.items[name] = NewSFTPBucket(conn.client, path.Join(cfg.SftpRoot, name), base+"/"+name)
		}
		bs.closer = conn
	default:
		return nil, errors.Errorf("unknown storage driver %q", cfg.Driver)
	}
	return bs, nil
}
