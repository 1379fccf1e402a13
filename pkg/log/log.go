/*
 Licensed to the Apache Software Foundation (ASF) under one
 or more contributor license agreements.  See the NOTICE file
 distributed with this work for additional information
 regarding copyright ownership.  The ASF licenses this file
 to you under the Apache License, Version 2.0 (the
 "License"); you may not use this file except in compliance
 with the License.  You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

// Package log provides the single zap logger used across this module.
package log

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once   sync.Once
	logger *zap.Logger
)

// Logger returns the process-wide structured logger, building it on first use.
func Logger() *zap.Logger {
	once.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.DisableStacktrace = true
		built, err := cfg.Build()
		if err != nil {
			// fall back to a no-op logger rather than crash a library caller
			built = zap.NewNop()
		}
		logger = built
	})
	return logger
}

// SetLogger overrides the package logger, for embedding applications that
// want this module to log through their own zap instance.
func SetLogger(l *zap.Logger) {
	once.Do(func() {})
	logger = l
}
