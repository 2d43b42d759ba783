package frontend

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Protoc shells out to an external protoc binary, for setups where the
// generated source must come from protoc's own plugin ecosystem. The
// rewrite set and well-known flag in the request are plugin concerns and
// are not forwarded; the descriptor output protoc produces is identical
// either way.
type Protoc struct {
	// Path is the protoc binary to run. Empty means "protoc" from PATH.
	Path string
	// ExtraArgs are appended verbatim after the generated arguments.
	ExtraArgs []string
}

var _ Frontend = (*Protoc)(nil)

// Compile runs protoc with --descriptor_set_out and --include_imports and
// decodes the resulting descriptor set. protoc's stderr is included in the
// returned error verbatim.
func (p *Protoc) Compile(ctx context.Context, req Request) (*descriptorpb.FileDescriptorSet, error) {
	bin := p.Path
	if bin == "" {
		bin = "protoc"
	}

	out, err := os.CreateTemp("", "protogen-descriptor-*.binpb")
	if err != nil {
		return nil, fmt.Errorf("creating descriptor temp file: %w", err)
	}
	outPath := out.Name()
	out.Close()
	defer os.Remove(outPath)

	args := make([]string, 0, 2*len(req.ImportPaths)+len(req.Files)+len(p.ExtraArgs)+2)
	for _, dir := range req.ImportPaths {
		args = append(args, "-I", dir)
	}
	args = append(args, "--descriptor_set_out="+outPath, "--include_imports")
	args = append(args, p.ExtraArgs...)
	args = append(args, req.Files...)

	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", bin, err, stderr.String())
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor set %s: %w", outPath, err)
	}
	var set descriptorpb.FileDescriptorSet
	if err := proto.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("decoding descriptor set from %s: %w", bin, err)
	}
	return &set, nil
}
