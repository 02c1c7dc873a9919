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

// NodeConfig 描述进程级别的路径配置，日志系统据此定位 log 目录。
type NodeConfig struct {
	// DataDir 是节点的数据根目录；日志写入 DataDir/log/。
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// DefaultNodeConfig 返回一个使用当前目录的默认配置。
func DefaultNodeConfig() NodeConfig {
	return NodeConfig{DataDir: "."}
}
