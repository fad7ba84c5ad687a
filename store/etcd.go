// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/danielhkuo/estimation-lab/models"
)

const defaultEtcdPrefix = "/estimation-lab/"

// EtcdConfig configures the etcd backend.
type EtcdConfig struct {
	Endpoints   []string
	DialTimeout time.Duration
	Prefix      string
}

// EtcdStore keeps each session under <prefix>sessions/<id>, with code and
// slug index keys pointing at the id. The key's ModRevision is the session
// version, and sessions with an expiry are bound to a lease.
type EtcdStore struct {
	client *clientv3.Client
	prefix string
	opts   options
}

func OpenEtcd(cfg EtcdConfig, opts ...Option) (*EtcdStore, error) {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: cfg.DialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to etcd %s: %w", strings.Join(cfg.Endpoints, ","), err)
	}
	return NewEtcd(cli, cfg.Prefix, opts...), nil
}

// NewEtcd wraps an existing client. The store owns the client from then on.
func NewEtcd(cli *clientv3.Client, prefix string, opts ...Option) *EtcdStore {
	if prefix == "" {
		prefix = defaultEtcdPrefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &EtcdStore{client: cli, prefix: prefix, opts: buildOptions(opts)}
}

func (st *EtcdStore) sessionKey(id string) string { return st.prefix + "sessions/" + id }
func (st *EtcdStore) codeKey(code string) string  { return st.prefix + "codes/" + code }
func (st *EtcdStore) slugKey(slug string) string  { return st.prefix + "slugs/" + slug }

func (st *EtcdStore) Create(ctx context.Context, s *models.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	var putOpts []clientv3.OpOption
	if s.ExpiresAt != nil {
		ttl := int64(math.Ceil(s.ExpiresAt.Sub(st.opts.now()).Seconds()))
		if ttl < 1 {
			ttl = 1
		}
		lease, err := st.client.Grant(ctx, ttl)
		if err != nil {
			return fmt.Errorf("grant session lease: %w", err)
		}
		putOpts = append(putOpts, clientv3.WithLease(lease.ID))
	}

	keys := []string{st.sessionKey(s.ID), st.codeKey(s.Code)}
	if s.Slug != "" {
		keys = append(keys, st.slugKey(s.Slug))
	}
	conds := make([]clientv3.Cmp, 0, len(keys))
	for _, k := range keys {
		conds = append(conds, clientv3.Compare(clientv3.CreateRevision(k), "=", 0))
	}
	ops := []clientv3.Op{
		clientv3.OpPut(st.sessionKey(s.ID), string(data), putOpts...),
		clientv3.OpPut(st.codeKey(s.Code), s.ID, putOpts...),
	}
	if s.Slug != "" {
		ops = append(ops, clientv3.OpPut(st.slugKey(s.Slug), s.ID, putOpts...))
	}

	resp, err := st.client.Txn(ctx).If(conds...).Then(ops...).Commit()
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	if !resp.Succeeded {
		return ErrExists
	}
	s.Version = resp.Header.Revision
	return nil
}

func (st *EtcdStore) Get(ctx context.Context, id string) (*models.Session, error) {
	resp, err := st.client.Get(ctx, st.sessionKey(id))
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if len(resp.Kvs) == 0 {
		return nil, ErrNotFound
	}
	kv := resp.Kvs[0]

	var s models.Session
	if err := json.Unmarshal(kv.Value, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	s.Version = kv.ModRevision
	if expired(&s, st.opts.now()) {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (st *EtcdStore) FindByCode(ctx context.Context, code string) (*models.Session, error) {
	return st.findByIndex(ctx, st.codeKey(code))
}

func (st *EtcdStore) FindBySlug(ctx context.Context, slug string) (*models.Session, error) {
	return st.findByIndex(ctx, st.slugKey(slug))
}

func (st *EtcdStore) findByIndex(ctx context.Context, key string) (*models.Session, error) {
	resp, err := st.client.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load session index: %w", err)
	}
	if len(resp.Kvs) == 0 {
		return nil, ErrNotFound
	}
	return st.Get(ctx, string(resp.Kvs[0].Value))
}

func (st *EtcdStore) Put(ctx context.Context, s *models.Session) error {
	if expired(s, st.opts.now()) {
		return ErrNotFound
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	key := st.sessionKey(s.ID)
	resp, err := st.client.Txn(ctx).
		If(clientv3.Compare(clientv3.ModRevision(key), "=", s.Version)).
		Then(clientv3.OpPut(key, string(data), clientv3.WithIgnoreLease())).
		Else(clientv3.OpGet(key, clientv3.WithCountOnly())).
		Commit()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if !resp.Succeeded {
		if len(resp.Responses) > 0 && resp.Responses[0].GetResponseRange().GetCount() == 0 {
			return ErrNotFound
		}
		return ErrConflict
	}
	s.Version = resp.Header.Revision
	return nil
}

func (st *EtcdStore) Delete(ctx context.Context, id string) error {
	s, err := st.Get(ctx, id)
	if err != nil {
		return err
	}

	ops := []clientv3.Op{
		clientv3.OpDelete(st.sessionKey(id)),
		clientv3.OpDelete(st.codeKey(s.Code)),
	}
	if s.Slug != "" {
		ops = append(ops, clientv3.OpDelete(st.slugKey(s.Slug)))
	}
	if _, err := st.client.Txn(ctx).Then(ops...).Commit(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (st *EtcdStore) Close() error {
	return st.client.Close()
}
