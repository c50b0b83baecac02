package mysql

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/justinwongcn/checkin/pkg/errorutil"
	applog "github.com/justinwongcn/checkin/pkg/logger"
)

// CheckinLog 签到日志实体
type CheckinLog struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	RunID     string    `gorm:"column:run_id;type:varchar(64);not null;index:idx_run_id"`
	Account   string    `gorm:"column:account;type:varchar(255);not null;default:'';index:idx_account"`
	Line      string    `gorm:"column:line;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

// TableName 指定表名
func (CheckinLog) TableName() string {
	return "checkin_logs"
}

// CheckinLogDAO 签到日志数据访问对象，同时作为日志 Sink
type CheckinLogDAO struct {
	db *gorm.DB
}

// NewCheckinLogDAO 创建 CheckinLogDAO 实例并自动建表
func NewCheckinLogDAO(dsn string) (*CheckinLogDAO, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return NewCheckinLogDAOWithDB(db)
}

// NewCheckinLogDAOWithDB 使用已有连接创建 CheckinLogDAO
func NewCheckinLogDAOWithDB(db *gorm.DB) (*CheckinLogDAO, error) {
	if err := db.AutoMigrate(&CheckinLog{}); err != nil {
		return nil, fmt.Errorf("failed to migrate checkin_logs: %w", err)
	}
	return &CheckinLogDAO{db: db}, nil
}

// Name 返回 Sink 名称
func (dao *CheckinLogDAO) Name() string {
	return "mysql"
}

// Append 插入一行日志，运行 ID 与账户取自 Context
func (dao *CheckinLogDAO) Append(ctx context.Context, line string) error {
	record := newCheckinLog(ctx, line, time.Now())
	if err := dao.db.WithContext(ctx).Create(record).Error; err != nil {
		return errorutil.LogWrite(dao.Name(), err)
	}
	return nil
}

// Close 关闭数据库连接
func (dao *CheckinLogDAO) Close() error {
	sqlDB, err := dao.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newCheckinLog(ctx context.Context, line string, now time.Time) *CheckinLog {
	return &CheckinLog{
		RunID:     applog.RunIDFrom(ctx),
		Account:   applog.AccountFrom(ctx),
		Line:      line,
		CreatedAt: now,
	}
}
