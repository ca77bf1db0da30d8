package cmd

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"filestore/core/config"
	"filestore/core/logger"
	"filestore/core/storage"
	"filestore/feature/files"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	listPrefix  string
	listNoURLs  bool
	uploadKey   string
	uploadCType string
	urlExpires  int
)

// filesCmd represents the files command
var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Manage files in the storage bucket",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// filesListCmd represents the files list command
var filesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List files under a prefix",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newFilesService()
		if err != nil {
			return err
		}

		var records []files.FileRecord
		if listNoURLs {
			records, err = svc.ListWithoutURLs(cmd.Context(), listPrefix)
		} else {
			records, err = svc.List(cmd.Context(), listPrefix)
		}
		if err != nil {
			return err
		}

		if len(records) == 0 {
			fmt.Println("No files found.")
			return nil
		}

		for _, r := range records {
			if r.URL != "" {
				fmt.Printf("%s\t%d\t%s\t%s\n", r.Key, r.Size, r.LastModified.Format(time.RFC3339), r.URL)
			} else {
				fmt.Printf("%s\t%d\t%s\n", r.Key, r.Size, r.LastModified.Format(time.RFC3339))
			}
		}
		fmt.Printf("\nTotal: %d file(s)\n", len(records))
		return nil
	},
}

// filesUploadCmd represents the files upload command
var filesUploadCmd = &cobra.Command{
	Use:   "upload <path>",
	Short: "Upload a local file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, logg, err := newFilesService()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		key := uploadKey
		if key == "" {
			// Random key keeps repeated uploads of the same file distinct
			key = path.Join("uploads", uuid.New().String()+filepath.Ext(args[0]))
		}

		contentType := uploadCType
		if contentType == "" {
			contentType = mime.TypeByExtension(filepath.Ext(args[0]))
		}
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}

		url, err := svc.Upload(cmd.Context(), data, key, contentType)
		if err != nil {
			return err
		}

		logg.Info("File uploaded", zap.String("key", key), zap.String("content_type", contentType))
		fmt.Printf("Key: %s\nURL: %s\n", key, url)
		return nil
	},
}

// filesDeleteCmd represents the files delete command
var filesDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, logg, err := newFilesService()
		if err != nil {
			return err
		}

		if err := svc.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}

		logg.Info("File deleted", zap.String("key", args[0]))
		return nil
	},
}

// filesURLCmd represents the files url command
var filesURLCmd = &cobra.Command{
	Use:   "url <key>",
	Short: "Generate a presigned download URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newFilesService()
		if err != nil {
			return err
		}

		url, err := svc.PresignedURL(cmd.Context(), args[0], time.Duration(urlExpires)*time.Second)
		if err != nil {
			return err
		}

		fmt.Println(url)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(filesCmd)
	filesCmd.AddCommand(filesListCmd, filesUploadCmd, filesDeleteCmd, filesURLCmd)

	filesListCmd.Flags().StringVar(&listPrefix, "prefix", "", "Key prefix to enumerate")
	filesListCmd.Flags().BoolVar(&listNoURLs, "no-urls", false, "Skip presigned URL generation")
	filesUploadCmd.Flags().StringVar(&uploadKey, "key", "", "Object key (defaults to uploads/<uuid>)")
	filesUploadCmd.Flags().StringVar(&uploadCType, "content-type", "", "Content type (detected when omitted)")
	filesURLCmd.Flags().IntVar(&urlExpires, "expires", 0, "Expiry in seconds (0 uses the configured default)")
}

// newFilesService builds the shared storage client and files service from configuration.
func newFilesService() (*files.Service, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	urlExpiry := time.Duration(cfg.Storage.URLExpirySeconds) * time.Second
	return files.NewService(client, cfg.Storage.Bucket, urlExpiry, logg), logg, nil
}
