package pcapng

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterBlockTypeRejectsBuiltin(t *testing.T) {
	err := RegisterBlockType(BlockTypeEnhancedPacket, nil, nil)
	require.Error(t, err)
}

func TestRegisterBlockTypeRejectsNonRegisterable(t *testing.T) {
	err := RegisterBlockType(BlockType(0x999), nil, nil)
	require.Error(t, err)
}

func TestRegisterBlockTypeAcceptsLocal(t *testing.T) {
	local := BlockType(0x80000042)
	read := func(order binary.ByteOrder, body []byte) ([]byte, []Option, error) {
		return append([]byte(nil), body...), nil, nil
	}
	err := RegisterBlockType(local, read, nil)
	require.NoError(t, err)

	h, ok := lookupBlockHandler(local)
	require.True(t, ok)
	payload, opts, err := h.read(binary.LittleEndian, []byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, payload)
	require.Nil(t, opts)
}

func TestRegisterOptionHandlerReplacesSilently(t *testing.T) {
	firstCalls, secondCalls := 0, 0
	first := func(order binary.ByteOrder, value []byte) (any, error) {
		firstCalls++
		return value, nil
	}
	second := func(order binary.ByteOrder, value []byte) (any, error) {
		secondCalls++
		return value, nil
	}
	RegisterOptionHandler(FamilyIDB, 0x8001, first, nil, nil)
	RegisterOptionHandler(FamilyIDB, 0x8001, second, nil, nil)

	h, ok := lookupOptionHandler(FamilyIDB, 0x8001)
	require.True(t, ok)
	_, err := h.parse(binary.LittleEndian, []byte{9})
	require.NoError(t, err)
	require.Equal(t, 0, firstCalls)
	require.Equal(t, 1, secondCalls)
}

func TestFamilyForCollapsesPacketFamily(t *testing.T) {
	for _, bt := range []BlockType{BlockTypePacket, BlockTypeEnhancedPacket, BlockTypeSimplePacket} {
		family, ok := familyFor(bt)
		require.True(t, ok)
		require.Equal(t, FamilyPacket, family)
	}
}

func TestFamilyForCollapsesEventFamily(t *testing.T) {
	for _, bt := range []BlockType{BlockTypeSysdigEvent, BlockTypeSysdigEventV2} {
		family, ok := familyFor(bt)
		require.True(t, ok)
		require.Equal(t, FamilyEvent, family)
	}
}
