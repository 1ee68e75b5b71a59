// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2025 UnderNET

package helper

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// GenerateQRCodePNG encodes a provisioning URI as a PNG image of size pixels
func GenerateQRCodePNG(uri string, size int) ([]byte, error) {
	png, err := qrcode.Encode(uri, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}

// GenerateQRCodeText renders a provisioning URI as a QR code made of block
// characters for display in a terminal
func GenerateQRCodeText(uri string) (string, error) {
	q, err := qrcode.New(uri, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}
	return q.ToSmallString(false), nil
}
