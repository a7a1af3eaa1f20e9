package counter

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/d0ngw/counters/cache"
	c "github.com/d0ngw/counters/common"

	_ "github.com/go-sql-driver/mysql"
)

// MysqlDBConfig MySQL数据库配置
type MysqlDBConfig struct {
	User    string `yaml:"user"`
	Pass    string `yaml:"pass"`
	URL     string `yaml:"url"`
	Schema  string `yaml:"schema"`
	MaxConn int    `yaml:"max_conn"`
	MaxIdle int    `yaml:"max_idle"`
}

// NewDB 构建MySQL数据库连接池
func (config *MysqlDBConfig) NewDB() (*sql.DB, error) {
	if config == nil {
		return nil, errors.New("Not found db config")
	}
	if len(config.User) == 0 || len(config.URL) == 0 || len(config.Schema) == 0 {
		return nil, errors.New("Invalid db config")
	}

	connectURL := fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8&parseTime=true", config.User, config.Pass, config.URL, config.Schema)
	db, err := sql.Open("mysql", connectURL)
	if err != nil {
		c.Errorf("Error on initializing database connection,%s", err)
		return nil, err
	}
	db.SetMaxIdleConns(config.MaxIdle)
	db.SetMaxOpenConns(config.MaxConn)
	return db, nil
}

// DBPersist implements Persist which persist counter snapshot to db
//
// 表结构:
//  CREATE TABLE counters (
//    id  VARCHAR(128) NOT NULL PRIMARY KEY,
//    val VARBINARY(32) NOT NULL,
//    ut  BIGINT NOT NULL
//  )
//
// ut为快照时间,单位毫秒
type DBPersist struct {
	db    *sql.DB
	table string
}

// NewDBPersist create DBPersist
func NewDBPersist(db *sql.DB, table string) (*DBPersist, error) {
	if db == nil || table == "" {
		return nil, errors.New("db and table must not be empty")
	}
	return &DBPersist{
		db:    db,
		table: table,
	}, nil
}

// Load implements Persist.Load
func (p *DBPersist) Load(name string) (value int64, found bool, err error) {
	var raw []byte
	err = p.db.QueryRow("SELECT val FROM "+p.table+" WHERE id = ?", name).Scan(&raw)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if err = cache.MsgPackDecodeBytes(raw, &value); err != nil {
		return 0, false, fmt.Errorf("decode counter %s fail,err:%s", name, err)
	}
	return value, true, nil
}

// Store implements Persist.Store
func (p *DBPersist) Store(name string, value int64) (err error) {
	raw, err := cache.MsgPackEncodeBytes(value)
	if err != nil {
		return err
	}
	ut := c.UnixMills(time.Now())
	_, err = p.db.Exec("INSERT INTO "+p.table+" (id,val,ut) VALUES (?,?,?) ON DUPLICATE KEY UPDATE val = VALUES(val),ut = VALUES(ut)", name, raw, ut)
	return
}

// Del implements Persist.Del
func (p *DBPersist) Del(name string) (deleted bool, err error) {
	result, err := p.db.Exec("DELETE FROM "+p.table+" WHERE id = ?", name)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
