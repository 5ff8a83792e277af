package pcapng

import "encoding/binary"

// maxDSBSecretsLength caps a single Decryption Secrets Block's secrets
// length, guarding against an adversarial length field before any
// allocation.
const maxDSBSecretsLength = 1 << 30

// decodeDSB parses a Decryption Secrets Block: a 32-bit secrets type, a
// 32-bit length, and that many bytes of opaque secret material.
// Trailing padding and any options are skipped rather than parsed: this
// engine treats secrets as an opaque blob to replay, not a format to
// interpret.
func decodeDSB(body []byte, order binary.ByteOrder, offset int64) (DecryptionSecretsBlock, error) {
	if len(body) < 8 {
		return DecryptionSecretsBlock{}, newBlockErr(KindShortRead, offset, BlockTypeDecryptionSecrets, "decryption secrets block body truncated")
	}
	secretsType := order.Uint32(body[0:4])
	secretsLen := order.Uint32(body[4:8])
	if secretsLen > maxDSBSecretsLength {
		return DecryptionSecretsBlock{}, newBlockErr(KindOutOfMemory, offset, BlockTypeDecryptionSecrets, "decryption secrets length exceeds limit")
	}
	rest := body[8:]
	if uint64(secretsLen) > uint64(len(rest)) {
		return DecryptionSecretsBlock{}, newBlockErr(KindBadFile, offset, BlockTypeDecryptionSecrets, "decryption secrets length exceeds remaining block data")
	}

	return DecryptionSecretsBlock{
		SecretsType: secretsType,
		Secrets:     append([]byte(nil), rest[:secretsLen]...),
	}, nil
}
