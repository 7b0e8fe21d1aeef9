// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common_test

import (
	"bytes"
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pvcombo/common"
)

var _ = Describe("Compression", func() {
	It("decompresses what it compresses", func() {
		in := bytes.Repeat([]byte("2021-01-04,729.77\n"), 200)
		compressed, err := common.Compress(in)
		Expect(err).To(BeNil())
		Expect(len(compressed)).To(BeNumerically("<", len(in)))

		out, err := common.Decompress(compressed)
		Expect(err).To(BeNil())
		Expect(out).To(Equal(in))
	})
})

var _ = Describe("Cache", func() {
	var (
		cache *common.Cache
		ctx   context.Context
	)

	BeforeEach(func() {
		var err error
		cache, err = common.NewCache(common.CacheConfig{LocalSize: 2})
		Expect(err).To(BeNil())
		ctx = context.Background()
	})

	It("returns stored values", func() {
		Expect(cache.Set(ctx, "a", []byte("value a"))).To(Succeed())
		val, err := cache.Get(ctx, "a")
		Expect(err).To(BeNil())
		Expect(string(val)).To(Equal("value a"))
	})

	It("reports a miss for unknown keys", func() {
		_, err := cache.Get(ctx, "missing")
		Expect(errors.Is(err, common.ErrCacheMiss)).To(BeTrue())
	})

	It("evicts the least recently used entry", func() {
		Expect(cache.Set(ctx, "a", []byte("1"))).To(Succeed())
		Expect(cache.Set(ctx, "b", []byte("2"))).To(Succeed())
		_, err := cache.Get(ctx, "a")
		Expect(err).To(BeNil())
		Expect(cache.Set(ctx, "c", []byte("3"))).To(Succeed())

		Expect(cache.Len()).To(Equal(2))
		_, err = cache.Get(ctx, "b")
		Expect(errors.Is(err, common.ErrCacheMiss)).To(BeTrue())
	})

	It("rejects a malformed redis url", func() {
		_, err := common.NewCache(common.CacheConfig{LocalSize: 2, RedisURL: "not a url"})
		Expect(err).ToNot(BeNil())
	})
})

var _ = Describe("ParseDate", func() {
	It("parses ISO dates", func() {
		dt, err := common.ParseDate("2021-03-05")
		Expect(err).To(BeNil())
		Expect(dt).To(Equal(time.Date(2021, 3, 5, 0, 0, 0, 0, time.UTC)))
	})

	It("treats the empty string as unset", func() {
		dt, err := common.ParseDate("")
		Expect(err).To(BeNil())
		Expect(dt.IsZero()).To(BeTrue())
	})

	It("rejects other formats", func() {
		_, err := common.ParseDate("03/05/2021")
		Expect(err).ToNot(BeNil())
	})
})

var _ = Describe("Version", func() {
	It("includes the program name", func() {
		Expect(common.BuildVersionString()).To(HavePrefix("pvcombo v"))
		Expect(common.BuildVersionString()).To(ContainSubstring("Built with: go"))
	})

	It("formats release versions without metadata", func() {
		Expect(common.Version{Major: 1, Minor: 2, Patch: 3}.String()).To(Equal("1.2.3"))
	})

	It("marks pre-release versions", func() {
		Expect(common.Version{Major: 1, Minor: 2, Patch: 0, Suffix: "dev"}.String()).To(HavePrefix("1.2.0-dev"))
	})
})
