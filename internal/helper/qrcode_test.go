// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2025 UnderNET

package helper

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testURI = "otpauth://totp/alice?secret=JBSWY3DPEHPK3PXP&issuer=KeyVault"

func TestGenerateQRCodePNG(t *testing.T) {
	data, err := GenerateQRCodePNG(testURI, 256)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())
}

func TestGenerateQRCodeText(t *testing.T) {
	text, err := GenerateQRCodeText(testURI)
	require.NoError(t, err)
	assert.NotEmpty(t, text)
	assert.Contains(t, text, "\n")
}

func TestGenerateQRCodeTooLong(t *testing.T) {
	_, err := GenerateQRCodePNG(string(make([]byte, 8000)), 256)
	assert.Error(t, err)
}
