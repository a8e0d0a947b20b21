package cli

import "context"

func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) != 2 {
		printlnFn("Usage: upload <folder> <path>")
		return nil
	}

	f, err := readImage(args[1])
	if err != nil {
		return err
	}

	url, err := a.api.Upload(ctx, args[0], f.Filename, f.ContentType, f.Data)
	if err != nil {
		return err
	}
	printlnFn(url)
	return nil
}
