// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package vault

import (
	"time"

	"github.com/jinzhu/copier"
	"github.com/undernetirc/keyvault/internal/helper"
)

// Row is the display form of a record with the password masked
type Row struct {
	ID          int32     `json:"id"`
	Location    string    `json:"location"`
	Username    string    `json:"username"`
	Password    string    `json:"password"`
	HasOTP      bool      `json:"has_otp"`
	LastUpdated time.Time `json:"last_updated"`
}

// Rows converts records to display rows, keeping at most limit rows when
// limit is positive
func Rows(records []*Record, limit int) ([]Row, error) {
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	var rows []Row
	if err := copier.Copy(&rows, &records); err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Password = helper.MaskPassword(rows[i].Password)
	}
	return rows, nil
}
