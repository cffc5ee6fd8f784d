// Copyright 2021 Silvio Böhler
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package flags contains some useful flag types.
package flags

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
)

// DateFlag manages a flag to determine a date.
type DateFlag time.Time

var _ pflag.Value = (*DateFlag)(nil)

func (tf DateFlag) String() string {
	return tf.Value().Format("2006-01-02")
}

// Set implements pflag.Value.
func (tf *DateFlag) Set(v string) error {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return err
	}
	*tf = (DateFlag)(t)
	return nil
}

// Type implements pflag.Value.
func (tf DateFlag) Type() string {
	return "YYYY-MM-DD"
}

// Value returns the flag value.
func (tf DateFlag) Value() time.Time {
	return time.Time(tf)
}

// IsZero reports whether the flag is unset.
func (tf DateFlag) IsZero() bool {
	return time.Time(tf).IsZero()
}

// DecimalFlag manages a flag to determine a decimal number.
type DecimalFlag decimal.Decimal

var _ pflag.Value = (*DecimalFlag)(nil)

func (df DecimalFlag) String() string {
	return decimal.Decimal(df).String()
}

// Set implements pflag.Value.
func (df *DecimalFlag) Set(v string) error {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return err
	}
	*df = DecimalFlag(d)
	return nil
}

// Type implements pflag.Value.
func (df DecimalFlag) Type() string {
	return "DECIMAL"
}

// Value returns the flag value.
func (df DecimalFlag) Value() decimal.Decimal {
	return decimal.Decimal(df)
}
