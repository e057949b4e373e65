// Package applog wires up the CLI's zap logger. It is a trimmed version of
// the teacher's config.LoggingConfig.Prepare: this tool has no long-running
// daemon mode and no debug-report archive, so the dual console+file tee and
// panic-capture machinery collapse to a single console core whose level is
// picked by the --verbose/--quiet flags, matching md2hwpx/cli.py's
// setup_logging.
package applog

import (
	"errors"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// New builds the CLI logger. verbose selects debug-level output; quiet
// restricts output to errors only; if both are set, quiet wins.
func New(verbose, quiet bool) *zap.Logger {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.TimeKey = zapcore.OmitKey
	if EnableColorOutput(os.Stderr) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	enc := newEncoder(ec)

	level := zapcore.InfoLevel
	switch {
	case quiet:
		level = zapcore.ErrorLevel
	case verbose:
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(os.Stderr)), zap.NewAtomicLevelAt(level))
	return zap.New(core).Named("mdtohwpx")
}

// consoleEnc strips verbose error detail before it reaches the console,
// mirroring the teacher's rationale: keep interactive output short.
type consoleEnc struct {
	zapcore.Encoder
}

func newEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return consoleEnc{zapcore.NewConsoleEncoder(cfg)}
}

func (c consoleEnc) Clone() zapcore.Encoder {
	return consoleEnc{c.Encoder.Clone()}
}

func (c consoleEnc) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	newFields := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		if f.Type == zapcore.ErrorType {
			if e, ok := f.Interface.(error); ok {
				f.Interface = errors.New(e.Error())
			}
		}
		newFields = append(newFields, f)
	}
	return c.Encoder.EncodeEntry(ent, newFields)
}
