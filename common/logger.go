// Package common 提供日志、配置、服务生命周期等基础服务
package common

import (
	"sync"
)

// ILogger 统一的日志接口
type ILogger interface {
	Debugf(format string, params ...interface{})

	Infof(format string, params ...interface{})

	Warnf(format string, params ...interface{})

	Errorf(format string, params ...interface{})

	Criticalf(format string, params ...interface{})

	// Sync 刷新缓冲的日志
	Sync()
}

// LogLevel 日志级别
type LogLevel string

// 日志级别常量
const (
	Debug    LogLevel = "debug"
	Info     LogLevel = "info"
	Warn     LogLevel = "warn"
	Error    LogLevel = "error"
	Critical LogLevel = "critical"
)

// 运行环境
const (
	EnvProduction  = "prod"
	EnvDevelopment = "dev"
)

//全局Logger
var logger ILogger = &StdLogger{}
var loggerLock sync.Mutex

//默认的记录日志的函数
func Debugf(format string, params ...interface{}) {
	logger.Debugf(format, params...)
}

func Infof(format string, params ...interface{}) {
	logger.Infof(format, params...)
}

func Warnf(format string, params ...interface{}) {
	logger.Warnf(format, params...)
}

func Errorf(format string, params ...interface{}) {
	logger.Errorf(format, params...)
}

func Criticalf(format string, params ...interface{}) {
	logger.Criticalf(format, params...)
}

// Logf 按level记录日志
func Logf(level LogLevel, format string, params ...interface{}) {
	switch level {
	case Debug:
		logger.Debugf(format, params...)
	case Warn:
		logger.Warnf(format, params...)
	case Error:
		logger.Errorf(format, params...)
	case Critical:
		logger.Criticalf(format, params...)
	default:
		logger.Infof(format, params...)
	}
}

// SyncLogger 刷新全局logger
func SyncLogger() {
	logger.Sync()
}

// initLogger 使用logConfig初始化全局logger
func initLogger(logConfig *LogConfig) error {
	loggerLock.Lock()
	defer loggerLock.Unlock()

	newLogger := NewZapLogger(logConfig)
	old := logger
	logger = newLogger
	old.Sync()
	return nil
}
