package protocol

import (
	"fmt"

	"github.com/simonhull/replaysort/internal/types"
	"github.com/simonhull/replaysort/internal/versioned"
)

// decodeHeader reads the replay header. Its layout has not changed since the
// first client release, so every generation shares this decoder.
func decodeHeader(data []byte) (types.Header, error) {
	v, err := versioned.Decode(data)
	if err != nil {
		return types.Header{}, &types.CorruptedFileError{Reason: "undecodable replay header", Err: err}
	}

	r := newFieldReader(v, "header")
	h := types.Header{
		Signature:        string(r.blob(0, "m_signature", false)),
		Type:             r.int(2, "m_type", false),
		ElapsedGameLoops: uint32(r.int(3, "m_elapsedGameLoops", false)),
		UseScaledTime:    r.bool(4, "m_useScaledTime", false),
		DataBuildNum:     uint32(r.int(6, "m_dataBuildNum", false)),
	}

	if ver, ok := r.sub(1, "m_version", true); ok {
		vr := newFieldReader(ver, "m_version")
		h.Version = types.VersionInfo{
			Flags:     vr.int(0, "m_flags", false),
			Major:     vr.int(1, "m_major", true),
			Minor:     vr.int(2, "m_minor", true),
			Revision:  vr.int(3, "m_revision", true),
			Build:     uint32(vr.int(4, "m_build", false)),
			BaseBuild: uint32(vr.int(5, "m_baseBuild", true)),
		}
		if err := vr.Err(); err != nil {
			return types.Header{}, &types.CorruptedFileError{Reason: "replay header", Err: err}
		}
	}
	if err := r.Err(); err != nil {
		return types.Header{}, &types.CorruptedFileError{Reason: "replay header", Err: err}
	}
	if h.Version.BaseBuild == 0 {
		return types.Header{}, &types.CorruptedFileError{Reason: fmt.Sprintf("replay header has no base build (signature %q)", h.Signature)}
	}
	return h, nil
}
