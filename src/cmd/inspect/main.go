package main

import (
	"fmt"
	"log"
	"os"

	"iconforge/src/common"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./src/cmd/inspect <image-file>")
		os.Exit(1)
	}

	imagePath := os.Args[1]

	img, mode, err := common.DecodeFile(imagePath)
	if err != nil {
		log.Fatalf("Failed to decode image: %v", err)
	}

	b := img.Bounds()
	fmt.Printf("File:       %s\n", imagePath)
	fmt.Printf("Dimensions: %dx%d\n", b.Dx(), b.Dy())
	fmt.Printf("Go type:    %T\n", img)
	fmt.Printf("Color mode: %s\n", mode)

	if chain := common.ConversionChain(mode); len(chain) > 0 {
		fmt.Printf("Normalized: %s\n", common.DescribeChain(chain))
	} else {
		fmt.Println("Normalized: used as is")
	}

	if b.Dx() != b.Dy() {
		fmt.Println("⚠️  Source is not square; icons will be stretched")
	}
}
