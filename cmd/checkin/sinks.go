package main

import (
	"github.com/justinwongcn/checkin/pkg/config"
	"github.com/justinwongcn/checkin/pkg/infra/mysql"
	"github.com/justinwongcn/checkin/pkg/infra/redis"
	"github.com/justinwongcn/checkin/pkg/lmstfy"
	"github.com/justinwongcn/checkin/pkg/sink"
)

// optionalSink 按配置创建的附加 Sink
type optionalSink struct {
	name  string
	build func() (sink.Named, func() error, error)
}

// optionalSinks 返回配置中启用的附加 Sink
func optionalSinks(cfg *config.Config) []optionalSink {
	var out []optionalSink

	if rc := cfg.Sinks.Redis; rc != nil {
		out = append(out, optionalSink{
			name: "redis",
			build: func() (sink.Named, func() error, error) {
				s, err := redis.NewListSink(rc.Addr, rc.Password, rc.DB, rc.Key)
				if err != nil {
					return nil, nil, err
				}
				return s, s.Close, nil
			},
		})
	}

	if mc := cfg.Sinks.MySQL; mc != nil {
		out = append(out, optionalSink{
			name: "mysql",
			build: func() (sink.Named, func() error, error) {
				dao, err := mysql.NewCheckinLogDAO(mc.DSN)
				if err != nil {
					return nil, nil, err
				}
				return dao, dao.Close, nil
			},
		})
	}

	if lc := cfg.Sinks.Lmstfy; lc != nil {
		out = append(out, optionalSink{
			name: "lmstfy",
			build: func() (sink.Named, func() error, error) {
				s, err := lmstfy.NewSink(lc.Host, lc.Port, lc.Namespace, lc.Token, lc.Queue)
				if err != nil {
					return nil, nil, err
				}
				return s, nil, nil
			},
		})
	}

	return out
}
