// Package processor runs Sign and Verify over record files on disk and
// optionally archives the results.
package processor

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/udisondev/woomy/internal/config"
	"github.com/udisondev/woomy/internal/constants"
	"github.com/udisondev/woomy/internal/crypto"
	"github.com/udisondev/woomy/internal/db"
	"github.com/udisondev/woomy/internal/record"
)

var (
	ErrBadMode  = errors.New("invalid operation")
	ErrBadSize  = errors.New("file is not correct size")
	ErrNotExist = errors.New("file path does not exist")
)

// Mode selects the file operation.
type Mode int

const (
	Decrypt Mode = iota // verify a signed record, write <file>.dec
	Encrypt             // sign a decrypted record, write <file>.enc
)

// ParseMode maps the command line switch to a Mode.
func ParseMode(arg string) (Mode, error) {
	switch arg {
	case "-d":
		return Decrypt, nil
	case "-e":
		return Encrypt, nil
	default:
		return 0, fmt.Errorf("%w %q, expected -d or -e", ErrBadMode, arg)
	}
}

func (m Mode) String() string {
	if m == Encrypt {
		return "encrypt"
	}
	return "decrypt"
}

func (m Mode) archiveMode() string {
	if m == Encrypt {
		return db.ModeSign
	}
	return db.ModeVerify
}

// Archive stores processed records. *db.RecordRepository implements it.
type Archive interface {
	SaveRecord(ctx context.Context, rec db.Record) (int64, error)
}

// Result describes one processed file.
type Result struct {
	Source   string
	Output   string
	Mode     Mode
	Verified bool           // false only for a decrypt whose hash did not match
	Amiibo   *record.Amiibo // decrypt only
	RecordID int64          // archive id, 0 without an archive
}

// Processor is safe for concurrent use when its Archive is.
type Processor struct {
	engine     *crypto.Engine
	hashLength int
	decSuffix  string
	encSuffix  string
	archive    Archive
}

// New creates a Processor. archive may be nil.
func New(engine *crypto.Engine, cfg config.Tool, archive Archive) *Processor {
	return &Processor{
		engine:     engine,
		hashLength: cfg.HashLength,
		decSuffix:  cfg.DecSuffix,
		encSuffix:  cfg.EncSuffix,
		archive:    archive,
	}
}

// NewEngine builds the Engine for cfg: the key file when configured,
// otherwise the reference keys.
func NewEngine(cfg config.Tool) (*crypto.Engine, error) {
	if cfg.KeyFile == "" {
		return crypto.NewReferenceEngine()
	}

	kf, err := config.LoadKeyFile(cfg.KeyFile)
	if err != nil {
		return nil, err
	}
	keys, err := crypto.NewKeyMaterialFromStrings(kf.N, kf.D, kf.E)
	if err != nil {
		return nil, fmt.Errorf("key file %s: %w", cfg.KeyFile, err)
	}
	engine, err := crypto.NewEngine(keys, sha256.New, constants.MessageSize)
	if err != nil {
		return nil, fmt.Errorf("key file %s: %w", cfg.KeyFile, err)
	}
	return engine, nil
}

// InputSize returns the file size accepted for mode.
func (p *Processor) InputSize(mode Mode) int {
	if mode == Encrypt {
		return constants.MessageSize
	}
	return p.engine.SignedLen(constants.PayloadSize, p.hashLength)
}

// ProcessFile checks path, runs mode over it and writes the output next to
// it. A hash mismatch is not an error: the output is written and
// Result.Verified is false.
func (p *Processor) ProcessFile(ctx context.Context, mode Mode, path string) (Result, error) {
	res := Result{Source: path, Mode: mode}

	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return res, fmt.Errorf("%w: %s", ErrNotExist, path)
		}
		return res, fmt.Errorf("stat %s: %w", path, err)
	}
	if want := p.InputSize(mode); fi.Size() != int64(want) {
		return res, fmt.Errorf("%w (%08X): %s is %d bytes", ErrBadSize, want, path, fi.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return res, fmt.Errorf("reading %s: %w", path, err)
	}

	var rec db.Record
	switch mode {
	case Decrypt:
		rec, err = p.decrypt(&res, data)
	case Encrypt:
		rec, err = p.encrypt(&res, data)
	default:
		return res, fmt.Errorf("%w: %d", ErrBadMode, mode)
	}
	if err != nil {
		return res, err
	}

	if p.archive != nil {
		rec.Source = path
		rec.Mode = mode.archiveMode()
		rec.Verified = res.Verified
		id, err := p.archive.SaveRecord(ctx, rec)
		if err != nil {
			return res, fmt.Errorf("archiving %s: %w", path, err)
		}
		res.RecordID = id
	}
	return res, nil
}

func (p *Processor) decrypt(res *Result, data []byte) (db.Record, error) {
	out := make([]byte, constants.MessageSize)
	n, err := p.engine.VerifyTo(out, data, p.hashLength)
	switch {
	case err == nil:
		res.Verified = true
	case errors.Is(err, crypto.ErrHashMismatch):
		slog.Warn("failed to verify data, output could be wrong", "path", res.Source)
	default:
		return db.Record{}, fmt.Errorf("verifying %s: %w", res.Source, err)
	}

	res.Output = res.Source + p.decSuffix
	if err := os.WriteFile(res.Output, out, 0o644); err != nil {
		return db.Record{}, fmt.Errorf("writing %s: %w", res.Output, err)
	}

	amiibo, err := record.DecodeAmiibo(out)
	if err != nil {
		return db.Record{}, fmt.Errorf("decoding %s: %w", res.Output, err)
	}
	res.Amiibo = amiibo

	sr, err := crypto.ParseSignedRecord(data, p.engine.MessageSize())
	if err != nil {
		return db.Record{}, fmt.Errorf("parsing %s: %w", res.Source, err)
	}
	return db.Record{Prefix: sr.Prefix, Signed: data, Plain: out[:n]}, nil
}

func (p *Processor) encrypt(res *Result, data []byte) (db.Record, error) {
	payload := data[:constants.PayloadSize]
	signed, err := p.engine.Sign(payload, p.hashLength)
	if err != nil {
		return db.Record{}, fmt.Errorf("signing %s: %w", res.Source, err)
	}
	res.Verified = true

	res.Output = res.Source + p.encSuffix
	if err := os.WriteFile(res.Output, signed, 0o644); err != nil {
		return db.Record{}, fmt.Errorf("writing %s: %w", res.Output, err)
	}

	prefixLen := len(signed) - p.engine.MessageSize()
	return db.Record{Prefix: signed[:prefixLen], Signed: signed, Plain: payload}, nil
}
