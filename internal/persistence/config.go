// MIT License
//
// Copyright (c) 2024-2026 Banksys Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package persistence

import "github.com/caarlos0/env/v11"

// PostgresConfig holds the database connection settings.
type PostgresConfig struct {
	DBHost     string `env:"DB_HOST"`     // DBHost represents the database host
	DBPort     int    `env:"DB_PORT"`     // DBPort is the database port
	DBName     string `env:"DB_NAME"`     // DBName is the database name
	DBUser     string `env:"DB_USER"`     // DBUser is the database user used to connect
	DBPassword string `env:"DB_PASSWORD"` // DBPassword is the database password
}

// LoadConfig reads the Postgres config from environment variables.
func LoadConfig() (*PostgresConfig, error) {
	config := &PostgresConfig{}
	opts := env.Options{RequiredIfNoDef: true}
	if err := env.ParseWithOptions(config, opts); err != nil {
		return nil, err
	}
	return config, nil
}
