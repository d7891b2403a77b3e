package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
)

func main() {
	fmt.Println("==============================================")
	fmt.Println("  customsvn 环境验证")
	fmt.Println("==============================================")
	fmt.Println()

	allOK := true

	fmt.Printf("✅ Go版本: %s\n", runtime.Version())
	fmt.Printf("✅ 操作系统: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	// 浏览器: 找不到时rod会在首次运行时自动下载Chromium
	if bin, ok := launcher.LookPath(); ok {
		fmt.Printf("✅ 已找到浏览器: %s\n", bin)
		if v := strings.TrimSpace(getCommandOutput(bin, "--version")); v != "" {
			fmt.Printf("   版本: %s\n", v)
		}
	} else {
		fmt.Println("⚠️  未找到Chrome/Chromium - 首次运行时将自动下载")
		fmt.Println("   也可以在配置文件中设置 portal.browser_bin")
	}

	fmt.Println()
	fmt.Println("检查项目结构...")
	for _, dir := range []string{
		"cmd/customsvn",
		"internal/core",
		"internal/crawlers",
		"internal/utils",
		"internal/models",
		"configs",
	} {
		if _, err := os.Stat(dir); err == nil {
			fmt.Printf("✅ %s/\n", dir)
		} else {
			fmt.Printf("❌ %s/ 不存在\n", dir)
			allOK = false
		}
	}

	fmt.Println()
	fmt.Println("检查输出目录权限...")
	for _, dir := range []string{"output", "logs"} {
		if err := checkWritable(dir); err != nil {
			fmt.Printf("❌ %s/ 不可写: %v\n", dir, err)
			allOK = false
		} else {
			fmt.Printf("✅ %s/ 可写\n", dir)
		}
	}

	fmt.Println()
	fmt.Println("==============================================")
	if allOK {
		fmt.Println("✅ 环境验证通过!")
		fmt.Println()
		fmt.Println("下一步:")
		fmt.Println("  1. 运行 'go build ./cmd/customsvn' 构建")
		fmt.Println("  2. 运行 './customsvn --validate-config' 检查配置")
		fmt.Println("  3. 运行 './customsvn' 开始抓取")
		os.Exit(0)
	}
	fmt.Println("❌ 环境验证失败,请解决上述问题。")
	os.Exit(1)
}

// checkWritable 创建目录并尝试写入临时文件
func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".verify-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(filepath.Clean(name))
}

// getCommandOutput 获取命令输出
func getCommandOutput(name string, args ...string) string {
	output, err := exec.Command(name, args...).Output()
	if err != nil {
		return ""
	}
	return string(output)
}
