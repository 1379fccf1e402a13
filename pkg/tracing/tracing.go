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

// Package tracing wraps the admission/dispatch hot paths in opentracing
// spans. By default it traces against the global no-op tracer; an
// embedding application that wants real traces calls SetTracer with a
// configured Jaeger tracer. This module never starts its own exporter.
package tracing

import (
	"context"

	"github.com/opentracing/opentracing-go"
)

var tracer opentracing.Tracer = opentracing.NoopTracer{}

// SetTracer installs the tracer used by StartSpan. Call once at startup.
func SetTracer(t opentracing.Tracer) {
	tracer = t
}

// StartSpan starts a span for operationName, returning it alongside a
// context carrying it so nested calls can pick up the parent span.
func StartSpan(ctx context.Context, operationName string) (opentracing.Span, context.Context) {
	parent := opentracing.SpanFromContext(ctx)
	var span opentracing.Span
	if parent != nil {
		span = tracer.StartSpan(operationName, opentracing.ChildOf(parent.Context()))
	} else {
		span = tracer.StartSpan(operationName)
	}
	return span, opentracing.ContextWithSpan(ctx, span)
}
