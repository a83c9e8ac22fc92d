// Command x3f-go runs the raw post-processing core over a decoded
// sensor frame and writes the result as a netpbm image for inspection.
package main

import (
	"fmt"
	"os"

	"flag"

	"github.com/sigmaraw/x3fpipe/output"
	"github.com/sigmaraw/x3fpipe/rawpipe"
	"github.com/sigmaraw/x3fpipe/x3f"
)

const version = "0.2.0"

type Config struct {
	Input       string
	Output      string
	Verbose     bool
	ShowVersion bool
	Denoise     bool
	DenoiseH    float64
	LogFile     string
	Debug       bool
}

func main() {
	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("x3f-go version %s\n", version)
		fmt.Println("raw sensor post-processing pipeline")
		os.Exit(0)
	}

	if config.Input == "" || config.Output == "" {
		fmt.Fprintln(os.Stderr, "错误: 必须指定输入文件 (-i) 和输出文件 (-o)")
		flag.Usage()
		os.Exit(1)
	}

	if err := run(config); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.Input, "i", "", "输入文件路径（RAWP 容器），必需")
	flag.StringVar(&config.Output, "o", "", "输出 PPM/PGM 文件路径，必需")
	flag.BoolVar(&config.Verbose, "v", false, "详细输出")
	flag.BoolVar(&config.ShowVersion, "version", false, "显示版本信息")
	flag.BoolVar(&config.Denoise, "denoise", false, "对输出应用 OpenCV 非局部均值降噪")
	flag.Float64Var(&config.DenoiseH, "denoise-h", 6.0, "降噪强度 h")
	flag.StringVar(&config.LogFile, "log-file", "",
		"将结构化日志写入该文件（自动轮转），留空则仅输出到控制台")
	flag.BoolVar(&config.Debug, "debug", false, "启用调试级别日志")
	flag.Parse()

	return config
}

func run(config *Config) error {
	logger, err := x3f.NewLogger(config.LogFile, config.Debug)
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	defer logger.Sync()

	in, err := os.Open(config.Input)
	if err != nil {
		return fmt.Errorf("打开输入文件失败: %w", err)
	}
	defer in.Close()

	logger.Step("解码", config.Input)
	frame, err := x3f.DecodeRawFrame(in)
	if err != nil {
		return fmt.Errorf("解码失败: %w", err)
	}
	logger.Done(fmt.Sprintf("%dx%d, cpp=%d", frame.Width, frame.Height, frame.CPP))

	logger.Step("处理", "黑电平/缩放/坏点/查找表")
	buf, err := x3f.ProcessBayerFrame(frame, logger, rawpipe.DefaultWorker{})
	if err != nil {
		return fmt.Errorf("处理失败: %w", err)
	}
	logger.Done("完成")

	if config.Denoise {
		logger.Step("降噪", fmt.Sprintf("h=%.1f", config.DenoiseH))
		cropRowBase := int(buf.MOffset.Y)*buf.Stride + int(buf.MOffset.X)*buf.CPP
		x3f.DenoiseWithOpenCV(
			buf.Data[cropRowBase:],
			int(buf.Dim.Y), int(buf.Dim.X), buf.CPP, buf.Stride,
			config.DenoiseH,
		)
		logger.Done("完成")
	}

	logger.Step("写入", config.Output)
	if err := output.ExportPPM(buf, config.Output); err != nil {
		return fmt.Errorf("写入失败: %w", err)
	}
	logger.Done("完成")

	logger.Total()
	return nil
}
