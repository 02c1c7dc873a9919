// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.
//
// The N42 library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The N42 library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the N42 library. If not, see <http://www.gnu.org/licenses/>.

package conf

// TableOption 描述单张表的磁盘布局参数。
type TableOption struct {
	// Buckets 是哈希表的桶数（必须是 2 的幂），数组表与 nomap 表忽略此字段。
	Buckets uint64 `json:"buckets" yaml:"buckets"`
	// Size 是 head/body 文件的初始映射大小（字节）。
	Size int64 `json:"size" yaml:"size"`
	// Rate 是容量不足时的扩容百分比。
	Rate uint `json:"rate" yaml:"rate"`
	// Sieve 为哈希表启用每桶 Bloom 近似过滤器。
	Sieve bool `json:"sieve" yaml:"sieve"`
}

// Settings 是 database/store 的顶层配置：一个目录加上按表名索引的选项集合。
type Settings struct {
	// Dir 是存储目录，包含所有 head/body 文件以及 primary/secondary 备份目录。
	Dir string `json:"dir" yaml:"dir"`
	// Tables 按表名映射到该表的磁盘选项；未出现的表使用 DefaultTableOption。
	Tables map[string]TableOption `json:"tables" yaml:"tables"`
}

// DefaultTableOption 是未显式配置的表使用的缺省选项。
func DefaultTableOption() TableOption {
	return TableOption{Buckets: 1 << 16, Size: 1 << 20, Rate: 50, Sieve: true}
}

// KnownTables enumerates the schema table names DefaultSettings pre-populates.
// Kept here (rather than imported from database/schema) so conf has no
// dependency on the schema package.
var KnownTables = []string{
	"header", "transaction", "point", "input", "output", "outs",
	"txs", "candidate", "confirmed", "strong_tx", "prevout", "validated_bk",
	"validated_tx", "address", "neutrino", "spend",
}

// DefaultSettings returns a Settings with every known table present under
// DefaultTableOption, rooted at dir.
func DefaultSettings(dir string) Settings {
	tables := make(map[string]TableOption, len(KnownTables))
	for _, name := range KnownTables {
		tables[name] = DefaultTableOption()
	}
	return Settings{Dir: dir, Tables: tables}
}

// Validate fills in zero-valued fields with defaults and ensures every
// known table has an entry.
func (s *Settings) Validate() error {
	if s.Dir == "" {
		s.Dir = "."
	}
	if s.Tables == nil {
		s.Tables = make(map[string]TableOption)
	}
	for _, name := range KnownTables {
		opt, ok := s.Tables[name]
		if !ok {
			s.Tables[name] = DefaultTableOption()
			continue
		}
		if opt.Buckets == 0 {
			opt.Buckets = DefaultTableOption().Buckets
		}
		if opt.Size <= 0 {
			opt.Size = DefaultTableOption().Size
		}
		if opt.Rate == 0 {
			opt.Rate = DefaultTableOption().Rate
		}
		s.Tables[name] = opt
	}
	return nil
}

// Table returns the option for name, or DefaultTableOption if unset.
func (s Settings) Table(name string) TableOption {
	if opt, ok := s.Tables[name]; ok {
		return opt
	}
	return DefaultTableOption()
}
