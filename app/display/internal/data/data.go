package data

import (
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/tech_digest/app/display/internal/conf"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/config"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/storage"
)

// Data 数据层资源，与抓取引擎共用同一个 Storage
type Data struct {
	store *storage.Storage
}

// NewData 打开文章库
func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	dbCfg := config.Default().DB
	if c != nil && c.Database != nil {
		if c.Database.Driver != "" {
			dbCfg.Driver = c.Database.Driver
		}
		if c.Database.Source != "" {
			dbCfg.DSN = c.Database.Source
		}
	}

	store, err := storage.NewStorage(dbCfg)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		log.NewHelper(logger).Info("closing the data resources")
		store.Close()
	}
	return &Data{store: store}, cleanup, nil
}

// Store 底层存储
func (d *Data) Store() *storage.Storage {
	return d.store
}
