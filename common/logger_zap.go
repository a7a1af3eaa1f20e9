package common

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ZapLogger 使用zap封装的logger
type ZapLogger struct {
	logEnable zap.AtomicLevel
	logger    *zap.SugaredLogger
}

// Debugf debug
func (l *ZapLogger) Debugf(format string, params ...interface{}) {
	l.logger.Debugf(format, params...)
}

// Infof info
func (l *ZapLogger) Infof(format string, params ...interface{}) {
	l.logger.Infof(format, params...)
}

// Warnf warn
func (l *ZapLogger) Warnf(format string, params ...interface{}) {
	l.logger.Warnf(format, params...)
}

// Errorf error
func (l *ZapLogger) Errorf(format string, params ...interface{}) {
	l.logger.Errorf(format, params...)
}

// Criticalf critical
func (l *ZapLogger) Criticalf(format string, params ...interface{}) {
	l.logger.DPanicf(format, params...)
}

// Sync impls ILogger.Sync
func (l *ZapLogger) Sync() {
	l.logger.Sync()
}

// SetLevel 设置日志级别
func (l *ZapLogger) SetLevel(level LogLevel) {
	zapl, ok := level.zapLevel()
	if ok {
		l.logEnable.SetLevel(zapl)
	}
}

func (p LogLevel) zapLevel() (level zapcore.Level, ok bool) {
	switch p {
	case Debug:
		return zapcore.DebugLevel, true
	case Info:
		return zapcore.InfoLevel, true
	case Warn:
		return zapcore.WarnLevel, true
	case Error:
		return zapcore.ErrorLevel, true
	case Critical:
		return zapcore.DPanicLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}

// NewZapLogger 根据logConfig创建ZapLogger
func NewZapLogger(logConfig *LogConfig) *ZapLogger {
	var encoder zapcore.Encoder
	var writerSync zapcore.WriteSyncer
	var logEnable zap.AtomicLevel

	if logConfig.Env == EnvProduction {
		config := zap.NewProductionEncoderConfig()
		config.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewConsoleEncoder(config)
		logEnable = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	} else {
		config := zap.NewDevelopmentEncoderConfig()
		encoder = zapcore.NewConsoleEncoder(config)
		logEnable = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	if logConfig.Level != "" {
		zapl, ok := LogLevel(logConfig.Level).zapLevel()
		if ok {
			logEnable = zap.NewAtomicLevelAt(zapl)
		}
	}

	if logConfig.FileName != "" {
		writerSync = zapcore.AddSync(&lumberjack.Logger{
			Filename:   logConfig.FileName,
			MaxSize:    logConfig.MaxSize,
			MaxBackups: logConfig.MaxBackups,
			MaxAge:     logConfig.MaxAge,
			LocalTime:  true,
		})
	} else {
		writerSync = zapcore.AddSync(os.Stderr)
	}

	core := zapcore.NewCore(encoder, writerSync, logEnable)
	zlogger := zap.New(core)
	if !logConfig.NoCaller {
		zlogger = zlogger.WithOptions(zap.AddCaller(), zap.AddCallerSkip(2))
	}
	return &ZapLogger{logger: zlogger.Sugar(), logEnable: logEnable}
}
