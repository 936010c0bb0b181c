package record

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/woomy/internal/constants"
)

// Field sizes of the decrypted Blitz amiibo record.
const (
	GearSlots         = 3
	KillCounterSize   = 3 * 4
	UserNameUnits     = 10
	amiiboFieldsBytes = constants.PaddingSize + 4*(3+GearSlots) + 8 + KillCounterSize + 2*UserNameUnits + 4
)

// Amiibo is the decoded form of a verified record.
//
//	0x00  Padding [8]      clear prefix of the signed record
//	0x08  Sig, FieldC, WeaponID   int32
//	0x14  GearIDs [3]int32
//	0x20  squid model, colours, controls  8 x uint8
//	0x28  WeaponGearKills [12]
//	0x34  UserName         10 UTF-16LE code units
//	0x48  octo model, colours, IsOcto  4 x uint8
//	0x4C  zero tail up to MessageSize
type Amiibo struct {
	Padding [constants.PaddingSize]byte

	Sig      int32
	FieldC   int32
	WeaponID int32
	GearIDs  [GearSlots]int32

	SquidPlayerModelType  uint8
	SquidSkinAndEyeColor  uint8
	SquidHairAndBottomIDs uint8
	PackedCtrlStick0      uint8
	PackedCtrlMotion0     uint8
	PackedCtrlStick1      uint8
	PackedCtrlMotion1     uint8
	PackedCtrls           uint8

	WeaponGearKills [KillCounterSize]byte
	UserName        string

	OctoPlayerModelType  uint8
	OctoSkinAndEyeColor  uint8
	OctoHairAndBottomIDs uint8
	IsOcto               bool
}

// DecodeAmiibo parses a decrypted record. data must hold at least the
// fixed fields; the tail up to MessageSize is ignored.
func DecodeAmiibo(data []byte) (*Amiibo, error) {
	if len(data) < amiiboFieldsBytes {
		return nil, fmt.Errorf("amiibo record: need %d bytes, got %d", amiiboFieldsBytes, len(data))
	}

	var a Amiibo
	r := NewReader(data)

	padding, err := r.ReadBytes(constants.PaddingSize)
	if err != nil {
		return nil, fmt.Errorf("reading padding: %w", err)
	}
	copy(a.Padding[:], padding)

	ints := []*int32{&a.Sig, &a.FieldC, &a.WeaponID, &a.GearIDs[0], &a.GearIDs[1], &a.GearIDs[2]}
	for _, p := range ints {
		if *p, err = r.ReadInt(); err != nil {
			return nil, fmt.Errorf("reading int field at %d: %w", r.Position(), err)
		}
	}

	squid := []*uint8{
		&a.SquidPlayerModelType, &a.SquidSkinAndEyeColor, &a.SquidHairAndBottomIDs,
		&a.PackedCtrlStick0, &a.PackedCtrlMotion0, &a.PackedCtrlStick1, &a.PackedCtrlMotion1,
		&a.PackedCtrls,
	}
	if err := readBytes(r, squid); err != nil {
		return nil, err
	}

	kills, err := r.ReadBytes(KillCounterSize)
	if err != nil {
		return nil, fmt.Errorf("reading kill counters: %w", err)
	}
	copy(a.WeaponGearKills[:], kills)

	if a.UserName, err = r.ReadFixedString(UserNameUnits); err != nil {
		return nil, fmt.Errorf("reading user name: %w", err)
	}

	var isOcto uint8
	if err := readBytes(r, []*uint8{&a.OctoPlayerModelType, &a.OctoSkinAndEyeColor, &a.OctoHairAndBottomIDs, &isOcto}); err != nil {
		return nil, err
	}
	a.IsOcto = isOcto != 0

	return &a, nil
}

func readBytes(r *Reader, dst []*uint8) error {
	for _, p := range dst {
		b, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("reading byte field at %d: %w", r.Position(), err)
		}
		*p = b
	}
	return nil
}

// Encode returns the MessageSize-byte record for a.
func (a *Amiibo) Encode() []byte {
	w := NewWriter(constants.MessageSize)
	w.WriteBytes(a.Padding[:])

	w.WriteInt(a.Sig)
	w.WriteInt(a.FieldC)
	w.WriteInt(a.WeaponID)
	for _, id := range a.GearIDs {
		w.WriteInt(id)
	}

	for _, b := range []uint8{
		a.SquidPlayerModelType, a.SquidSkinAndEyeColor, a.SquidHairAndBottomIDs,
		a.PackedCtrlStick0, a.PackedCtrlMotion0, a.PackedCtrlStick1, a.PackedCtrlMotion1,
		a.PackedCtrls,
	} {
		_ = w.WriteByte(b)
	}

	w.WriteBytes(a.WeaponGearKills[:])
	w.WriteFixedString(a.UserName, UserNameUnits)

	var isOcto uint8
	if a.IsOcto {
		isOcto = 1
	}
	for _, b := range []uint8{a.OctoPlayerModelType, a.OctoSkinAndEyeColor, a.OctoHairAndBottomIDs, isOcto} {
		_ = w.WriteByte(b)
	}

	return w.Bytes()
}

// LogValue implements slog.LogValuer.
func (a *Amiibo) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("user", a.UserName),
		slog.Int("weapon", int(a.WeaponID)),
		slog.Any("gear", a.GearIDs),
		slog.Bool("octo", a.IsOcto),
	)
}
